package live

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/fikiri/go-client/mock"
)

func TestStream(t *testing.T) {
	Convey("Frames pushed by the backend reach the handler", t, func() {
		server := mock.NewServer(mock.Options{})
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		received := make(chan Frame, 4)
		stream := &Stream{URL: server.URL() + "/stream"}
		go stream.Run(ctx, func(frame Frame) {
			received <- frame
		})

		// Give the client a moment to connect before publishing.
		time.Sleep(100 * time.Millisecond)
		server.PushFrame(ResourceMetrics, gin.H{"emails_processed": 129})

		select {
		case frame := <-received:
			So(frame.Resource, ShouldEqual, ResourceMetrics)
			So(frame.Payload["emails_processed"], ShouldEqual, float64(129))
		case <-time.After(3 * time.Second):
			So("no frame received", ShouldBeEmpty)
		}
	})

	Convey("Cancelling the context stops the stream", t, func() {
		server := mock.NewServer(mock.Options{})
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		stream := &Stream{URL: server.URL() + "/stream", InitialBackoff: 10 * time.Millisecond}
		go func() {
			stream.Run(ctx, func(Frame) {})
			close(done)
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(3 * time.Second):
			So("stream did not stop", ShouldBeEmpty)
		}
	})
}
