package notify

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCenter(t *testing.T) {
	Convey("Pushed notifications reach listeners and the list", t, func() {
		center := NewCenter()

		var received []Notification
		center.Subscribe(func(n Notification) {
			received = append(received, n)
		})

		center.Push(Notification{Level: Info, Message: "Email sent", Dismissible: true})

		So(len(received), ShouldEqual, 1)
		So(received[0].Message, ShouldEqual, "Email sent")
		So(received[0].CreatedAt.IsZero(), ShouldBeFalse)
		So(len(center.List()), ShouldEqual, 1)
	})

	Convey("PushError surfaces the root cause with call-site context", t, func() {
		center := NewCenter()

		wrapped := errors.Wrap(errors.New("connection refused"), "Request GET /leads failed")
		center.PushError(wrapped, "Could not load leads")

		items := center.List()
		So(len(items), ShouldEqual, 1)
		So(items[0].Level, ShouldEqual, Error)
		So(items[0].Message, ShouldEqual, "Could not load leads: connection refused")
		So(items[0].Dismissible, ShouldBeTrue)
	})

	Convey("Dismiss removes only dismissible notifications", t, func() {
		center := NewCenter()
		center.Push(Notification{Level: Warning, Message: "Trial ends soon", Dismissible: false})
		center.Push(Notification{Level: Info, Message: "Lead created", Dismissible: true})

		center.Dismiss(0)
		So(len(center.List()), ShouldEqual, 2)

		center.Dismiss(1)
		items := center.List()
		So(len(items), ShouldEqual, 1)
		So(items[0].Message, ShouldEqual, "Trial ends soon")

		center.Dismiss(99)
		So(len(center.List()), ShouldEqual, 1)
	})

	Convey("List returns a copy", t, func() {
		center := NewCenter()
		center.Push(Notification{Level: Info, Message: "original", Dismissible: true})

		items := center.List()
		items[0].Message = "mutated"

		So(center.List()[0].Message, ShouldEqual, "original")
	})
}
