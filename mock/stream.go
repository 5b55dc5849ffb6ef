package mock

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/gin-gonic/gin"
)

type sseFrame struct {
	Resource string      `json:"resource"`
	Payload  interface{} `json:"payload"`
}

// frameHub fans published frames out to every connected stream client.
type frameHub struct {
	mu      sync.Mutex
	clients map[chan sseFrame]bool
	closed  bool
}

func newFrameHub() *frameHub {
	return &frameHub{clients: map[chan sseFrame]bool{}}
}

func (h *frameHub) subscribe() chan sseFrame {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan sseFrame, 8)
	if h.closed {
		close(ch)
		return ch
	}
	h.clients[ch] = true
	return ch
}

func (h *frameHub) unsubscribe(ch chan sseFrame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[ch] {
		delete(h.clients, ch)
		close(ch)
	}
}

func (h *frameHub) publish(frame sseFrame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- frame:
		default:
			// Slow client, drop the frame rather than block the publisher.
		}
	}
}

func (h *frameHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.clients {
		close(ch)
	}
	h.clients = map[chan sseFrame]bool{}
}

func (s *Server) streamHandler(c *gin.Context) {
	ch := s.frames.subscribe()
	defer s.frames.unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case frame, ok := <-ch:
			if !ok {
				return false
			}
			raw, err := json.Marshal(frame)
			if err != nil {
				return true
			}
			c.SSEvent("message", string(raw))
			return true

		case <-c.Request.Context().Done():
			return false
		}
	})
}
