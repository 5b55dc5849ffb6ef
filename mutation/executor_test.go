package mutation

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/fikiri/go-client/cache"
	"github.com/fikiri/go-client/cache/testutil"
)

func populatedKey(store *cache.Store, name string, value interface{}) (cache.Key, *testutil.FetchRecorder) {
	key := cache.NewKey(name)
	recorder := testutil.NewFetchRecorder(value)
	if _, err := store.Fetch(key, recorder.Fetch, time.Hour); err != nil {
		panic(err)
	}
	return key, recorder
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) PushError(err error, context string) {
	n.messages = append(n.messages, context+": "+errors.Cause(err).Error())
}

func TestExecutor(t *testing.T) {
	Convey("A successful mutation invalidates the listed keys", t, func() {
		store := cache.New(cache.Options{})
		defer store.Teardown()
		executor := NewExecutor(store)

		key, recorder := populatedKey(store, "leads", "v1")

		err := executor.Do(context.Background(), Action{
			ID:          "move-lead_1",
			Call:        func(ctx context.Context) error { return nil },
			Invalidates: []cache.Key{key},
		})
		So(err, ShouldBeNil)

		// Value survives the invalidation, the next fetch refreshes it.
		var got string
		hit, err := store.Get(key, &got)
		So(err, ShouldBeNil)
		So(hit, ShouldBeTrue)
		So(got, ShouldEqual, "v1")

		recorder.Succeed("v2")
		value, err := store.Fetch(key, recorder.Fetch, time.Hour)
		So(err, ShouldBeNil)
		So(value, ShouldEqual, "v2")
		So(recorder.Calls(), ShouldEqual, 2)
	})

	Convey("A failed mutation leaves the cache untouched", t, func() {
		store := cache.New(cache.Options{})
		defer store.Teardown()
		executor := NewExecutor(store)

		key, recorder := populatedKey(store, "emails", "inbox v1")

		err := executor.Do(context.Background(), Action{
			ID:          "archive-em_1",
			Call:        func(ctx context.Context) error { return errors.New("backend says no") },
			Invalidates: []cache.Key{key},
		})
		So(err, ShouldNotBeNil)

		// Still fresh: no refetch on the next read.
		value, err := store.Fetch(key, recorder.Fetch, time.Hour)
		So(err, ShouldBeNil)
		So(value, ShouldEqual, "inbox v1")
		So(recorder.Calls(), ShouldEqual, 1)
	})

	Convey("The same action ID cannot run twice concurrently", t, func() {
		store := cache.New(cache.Options{})
		defer store.Teardown()
		executor := NewExecutor(store)

		started := make(chan struct{})
		release := make(chan struct{})
		firstDone := make(chan error, 1)

		go func() {
			firstDone <- executor.Do(context.Background(), Action{
				ID: "cancel",
				Call: func(ctx context.Context) error {
					close(started)
					<-release
					return nil
				},
			})
		}()
		<-started

		So(executor.InFlight("cancel"), ShouldBeTrue)

		err := executor.Do(context.Background(), Action{
			ID:   "cancel",
			Call: func(ctx context.Context) error { return nil },
		})
		So(errors.Cause(err), ShouldEqual, ErrInFlight)

		Convey("While a different entity's action stays independent", func() {
			err := executor.Do(context.Background(), Action{
				ID:   "remove-lead_2",
				Call: func(ctx context.Context) error { return nil },
			})
			So(err, ShouldBeNil)
		})

		close(release)
		So(<-firstDone, ShouldBeNil)
		So(executor.InFlight("cancel"), ShouldBeFalse)
	})

	Convey("Failures are routed to the attached notifier", t, func() {
		store := cache.New(cache.Options{})
		defer store.Teardown()
		executor := NewExecutor(store)

		notifier := &recordingNotifier{}
		executor.SetNotifier(notifier)

		err := executor.Do(context.Background(), Action{
			ID:          "archive-em_1",
			Description: "Could not archive the email",
			Call:        func(ctx context.Context) error { return errors.New("backend says no") },
		})
		So(err, ShouldNotBeNil)
		So(len(notifier.messages), ShouldEqual, 1)
		So(notifier.messages[0], ShouldEqual, "Could not archive the email: backend says no")

		Convey("While successes stay silent", func() {
			err := executor.Do(context.Background(), Action{
				ID:   "send-email",
				Call: func(ctx context.Context) error { return nil },
			})
			So(err, ShouldBeNil)
			So(len(notifier.messages), ShouldEqual, 1)
		})
	})

	Convey("Resource-wide invalidation goes through", t, func() {
		store := cache.New(cache.Options{})
		defer store.Teardown()
		executor := NewExecutor(store)

		key, recorder := populatedKey(store, "invoices", "v1")

		err := executor.Do(context.Background(), Action{
			ID:                   "checkout",
			Call:                 func(ctx context.Context) error { return nil },
			InvalidatesResources: []string{"invoices"},
		})
		So(err, ShouldBeNil)

		recorder.Succeed("v2")
		value, err := store.Fetch(key, recorder.Fetch, time.Hour)
		So(err, ShouldBeNil)
		So(value, ShouldEqual, "v2")
	})
}
