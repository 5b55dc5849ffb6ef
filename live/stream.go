package live

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultInitialBackoff = time.Second
	defaultMaxBackoff     = 30 * time.Second

	streamLogCategory = "live_stream"
)

// Stream is the long-lived push connection: a server-sent-events GET that is
// re-dialed automatically whenever it drops.
type Stream struct {
	URL    string
	Client *http.Client

	// Reconnect backoff bounds; zero values pick the defaults.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Run connects, decodes frames and hands them to handler until ctx is done.
// Connection drops are logged and retried with exponential backoff; the
// backoff resets after every successful connection.
func (s *Stream) Run(ctx context.Context, handler func(Frame)) {
	backoff := s.initialBackoff()

	for {
		err := s.consumeOnce(ctx, handler)
		if ctx.Err() != nil {
			return
		}

		streamLogger("stream_dropped", s.URL).
			WithError(err).
			WithField("retryIn", backoff.String()).
			Warn("Live stream dropped, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if max := s.maxBackoff(); backoff > max {
			backoff = max
		}
	}
}

func (s *Stream) consumeOnce(ctx context.Context, handler func(Frame)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return errors.Wrapf(err, "Failed to build stream request")
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "Failed to connect to live stream")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("Live stream endpoint answered status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if data.Len() > 0 {
				s.dispatch(data.String(), handler)
				data.Reset()
			}
			continue
		}
		if strings.HasPrefix(line, "data:") {
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	return errors.Wrapf(scanner.Err(), "Live stream connection ended")
}

func (s *Stream) dispatch(data string, handler func(Frame)) {
	var frame Frame
	if err := json.Unmarshal([]byte(data), &frame); err != nil {
		streamLogger("bad_frame", s.URL).WithError(err).Warn("Discarding undecodable frame")
		return
	}
	handler(frame)
}

func (s *Stream) initialBackoff() time.Duration {
	if s.InitialBackoff > 0 {
		return s.InitialBackoff
	}
	return defaultInitialBackoff
}

func (s *Stream) maxBackoff() time.Duration {
	if s.MaxBackoff > 0 {
		return s.MaxBackoff
	}
	return defaultMaxBackoff
}

func streamLogger(code, url string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"category": streamLogCategory,
		"code":     code,
		"url":      url,
	})
}
