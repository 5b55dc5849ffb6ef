package live

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Broker fans frames out to as many subscribers as registered with it. An
// explicit unsubscription is necessary even with a context.Context being sent
// on the subscription call.
type Broker interface {
	Subscribe(ctx context.Context) (FrameSource, error)
	Unsubscribe(src FrameSource) (hasMore bool, err error)
}

type broker struct {
	ctx    context.Context
	source FrameSource

	lock    sync.Mutex
	clients []client
}

type client struct {
	C   chan Frame
	ctx context.Context
}

// NewBroker distributes every frame read from source to all current
// subscribers until source closes or ctx is done.
func NewBroker(ctx context.Context, source FrameSource) Broker {
	b := &broker{
		ctx:     ctx,
		source:  source,
		clients: make([]client, 0, 10),
	}
	go b.sendFramesLoop()
	return b
}

func (b *broker) sendFramesLoop() {
	defer b.unsubscribeAll()

	for {
		select {
		case frame, ok := <-b.source:
			if !ok {
				return
			}
			b.sendToClients(frame)

		case <-b.ctx.Done():
			return
		}
	}
}

func (b *broker) isStopped() bool {
	select {
	case <-b.ctx.Done():
		return true
	default:
		return false
	}
}

func (b *broker) sendToClients(frame Frame) {
	b.lock.Lock()
	defer b.lock.Unlock()

	for _, cl := range b.clients {
		select {
		case cl.C <- frame:
		case <-cl.ctx.Done():
			// client done, simply ignore them until they're properly unsubscribed
		case <-b.ctx.Done():
			return
		}
	}
}

func (b *broker) Subscribe(ctx context.Context) (FrameSource, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.isStopped() {
		return nil, errors.New("Attempt to subscribe to an already stopped broker")
	}

	ch := make(chan Frame, 1)
	b.clients = append(b.clients, client{ch, ctx})

	return ch, nil
}

func (b *broker) Unsubscribe(src FrameSource) (hasMore bool, err error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	idx := findClientIdx(b.clients, src)
	if idx < 0 {
		return len(b.clients) > 0, errors.New("Tried to unsubscribe inexistent client")
	}

	close(b.clients[idx].C)
	b.clients = append(b.clients[:idx], b.clients[idx+1:]...)
	return len(b.clients) > 0, nil
}

func (b *broker) unsubscribeAll() {
	b.lock.Lock()
	defer b.lock.Unlock()

	for _, cl := range b.clients {
		close(cl.C)
	}
	b.clients = nil
}

func findClientIdx(clients []client, elm <-chan Frame) int {
	for i, cl := range clients {
		if cl.C == elm {
			return i
		}
	}
	return -1
}
