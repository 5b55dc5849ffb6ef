package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/fikiri/go-client/cache/testutil"
)

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestRead(t *testing.T) {
	Convey("Read never blocks and fills the entry in the background", t, func() {
		store := New(Options{})
		defer store.Teardown()

		key := NewKey("leads")
		recorder := testutil.NewFetchRecorder([]string{"ada", "brian"})

		res := store.Read(key, recorder.Fetch, time.Minute)
		So(res.Hit, ShouldBeFalse)
		So(res.IsLoading, ShouldBeTrue)
		So(res.Err, ShouldBeNil)

		So(eventually(func() bool {
			var got []string
			hit, err := store.Get(key, &got)
			return err == nil && hit && len(got) == 2
		}), ShouldBeTrue)
		So(recorder.Calls(), ShouldEqual, 1)

		Convey("A fresh entry is served without a new fetch", func() {
			res := store.Read(key, recorder.Fetch, time.Minute)
			So(res.Hit, ShouldBeTrue)
			So(res.IsLoading, ShouldBeFalse)

			time.Sleep(20 * time.Millisecond)
			So(recorder.Calls(), ShouldEqual, 1)
		})
	})

	Convey("Concurrent reads of the same key issue exactly one network call", t, func() {
		store := New(Options{})
		defer store.Teardown()

		key := NewKey("emails", "user1", "unread", "50")
		recorder := testutil.NewFetchRecorder("inbox")
		recorder.Hold()

		wg := sync.WaitGroup{}
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.Read(key, recorder.Fetch, time.Minute)
			}()
		}
		wg.Wait()

		time.Sleep(20 * time.Millisecond)
		recorder.Release()

		So(eventually(func() bool {
			var got string
			hit, _ := store.Get(key, &got)
			return hit
		}), ShouldBeTrue)
		So(recorder.Calls(), ShouldEqual, 1)
	})

	Convey("A stale entry is served immediately while refetching", t, func() {
		clock := testutil.NewClock()
		store := New(Options{Now: clock.Now})
		defer store.Teardown()

		key := NewKey("metrics")
		recorder := testutil.NewFetchRecorder("v1")

		store.Read(key, recorder.Fetch, time.Minute)
		So(eventually(func() bool {
			var got string
			hit, _ := store.Get(key, &got)
			return hit && got == "v1"
		}), ShouldBeTrue)

		clock.Advance(2 * time.Minute)
		recorder.Succeed("v2")

		res := store.Read(key, recorder.Fetch, time.Minute)
		So(res.Hit, ShouldBeTrue)
		So(res.Value, ShouldEqual, "v1")

		So(eventually(func() bool {
			var got string
			hit, _ := store.Get(key, &got)
			return hit && got == "v2"
		}), ShouldBeTrue)
		So(recorder.Calls(), ShouldEqual, 2)
	})

	Convey("A failed refetch keeps the previous value and flags the error", t, func() {
		clock := testutil.NewClock()
		store := New(Options{Now: clock.Now})
		defer store.Teardown()

		key := NewKey("invoices")
		recorder := testutil.NewFetchRecorder("good data")

		store.Read(key, recorder.Fetch, time.Minute)
		So(eventually(func() bool {
			var got string
			hit, _ := store.Get(key, &got)
			return hit
		}), ShouldBeTrue)

		clock.Advance(2 * time.Minute)
		recorder.Fail(errors.New("backend down"))

		store.Read(key, recorder.Fetch, time.Minute)
		So(eventually(func() bool {
			res := store.Read(key, recorder.Fetch, time.Minute)
			return res.Err != nil
		}), ShouldBeTrue)

		var got string
		hit, err := store.Get(key, &got)
		So(err, ShouldBeNil)
		So(hit, ShouldBeTrue)
		So(got, ShouldEqual, "good data")
	})

	Convey("A read whose refetch is dedup-dropped does not strand the entry", t, func() {
		store := New(Options{})
		defer store.Teardown()

		key := NewKey("leads")
		recorder := testutil.NewFetchRecorder("v1")

		// Occupy the refresher's dedup slot for this key, the state left behind
		// when a finished fetch has not released its mark yet.
		blocker := make(chan struct{})
		So(store.refresh.Schedule(key.String(), func() { <-blocker }), ShouldBeTrue)

		res := store.Read(key, recorder.Fetch, time.Minute)
		So(res.Hit, ShouldBeFalse)
		So(recorder.Calls(), ShouldEqual, 0)

		close(blocker)

		// Later reads must recover and fetch once the slot is free.
		So(eventually(func() bool {
			store.Read(key, recorder.Fetch, time.Minute)
			var got string
			hit, _ := store.Get(key, &got)
			return hit && got == "v1"
		}), ShouldBeTrue)
		So(recorder.Calls(), ShouldEqual, 1)
	})

	Convey("Reading with an invalid key fails synchronously", t, func() {
		store := New(Options{})
		defer store.Teardown()

		res := store.Read(Key{}, testutil.NewFetchRecorder(nil).Fetch, time.Minute)
		So(res.Err, ShouldNotBeNil)
	})
}

func TestFetch(t *testing.T) {
	Convey("Fetch blocks until the value is in hand", t, func() {
		store := New(Options{})
		defer store.Teardown()

		key := NewKey("pricing-tiers")
		recorder := testutil.NewFetchRecorder(map[string]interface{}{"starter": true})

		value, err := store.Fetch(key, recorder.Fetch, time.Minute)
		So(err, ShouldBeNil)
		So(value, ShouldNotBeNil)
		So(recorder.Calls(), ShouldEqual, 1)

		Convey("And serves the fresh entry without another call", func() {
			_, err := store.Fetch(key, recorder.Fetch, time.Minute)
			So(err, ShouldBeNil)
			So(recorder.Calls(), ShouldEqual, 1)
		})
	})

	Convey("Fetch surfaces the fetcher error", t, func() {
		store := New(Options{})
		defer store.Teardown()

		recorder := testutil.NewFetchRecorder(nil)
		recorder.Fail(errors.New("nope"))

		_, err := store.Fetch(NewKey("usage"), recorder.Fetch, time.Minute)
		So(err, ShouldNotBeNil)
	})
}

func TestInvalidate(t *testing.T) {
	Convey("Invalidate keeps the displayed value but forces the next read to refetch", t, func() {
		store := New(Options{})
		defer store.Teardown()

		key := NewKey("subscription")
		recorder := testutil.NewFetchRecorder("sub v1")

		store.Read(key, recorder.Fetch, time.Hour)
		So(eventually(func() bool {
			var got string
			hit, _ := store.Get(key, &got)
			return hit
		}), ShouldBeTrue)

		store.Invalidate(key)

		var got string
		hit, err := store.Get(key, &got)
		So(err, ShouldBeNil)
		So(hit, ShouldBeTrue)
		So(got, ShouldEqual, "sub v1")

		recorder.Succeed("sub v2")
		store.Read(key, recorder.Fetch, time.Hour)
		So(eventually(func() bool {
			var got string
			hit, _ := store.Get(key, &got)
			return hit && got == "sub v2"
		}), ShouldBeTrue)
		So(recorder.Calls(), ShouldEqual, 2)
	})

	Convey("InvalidateResource hits every parameterized key of the resource", t, func() {
		store := New(Options{})
		defer store.Teardown()

		unread := NewKey("emails", "unread")
		all := NewKey("emails", "all")
		other := NewKey("leads")

		recUnread := testutil.NewFetchRecorder("unread v1")
		recAll := testutil.NewFetchRecorder("all v1")
		recOther := testutil.NewFetchRecorder("leads v1")

		store.Read(unread, recUnread.Fetch, time.Hour)
		store.Read(all, recAll.Fetch, time.Hour)
		store.Read(other, recOther.Fetch, time.Hour)
		So(eventually(func() bool {
			return recUnread.Calls() == 1 && recAll.Calls() == 1 && recOther.Calls() == 1
		}), ShouldBeTrue)

		store.InvalidateResource("emails")

		store.Read(unread, recUnread.Fetch, time.Hour)
		store.Read(all, recAll.Fetch, time.Hour)
		store.Read(other, recOther.Fetch, time.Hour)

		So(eventually(func() bool {
			return recUnread.Calls() == 2 && recAll.Calls() == 2
		}), ShouldBeTrue)
		So(recOther.Calls(), ShouldEqual, 1)
	})
}

func TestSubscribe(t *testing.T) {
	Convey("Subscribers are notified when a fetch lands", t, func() {
		store := New(Options{})
		defer store.Teardown()

		key := NewKey("activity")
		recorder := testutil.NewFetchRecorder("latest")

		updates := make(chan Result, 4)
		unsubscribe := store.Subscribe(key, func(res Result) {
			updates <- res
		})
		defer unsubscribe()

		store.Read(key, recorder.Fetch, time.Minute)

		select {
		case res := <-updates:
			So(res.Hit, ShouldBeTrue)
			So(res.Value, ShouldEqual, "latest")
		case <-time.After(2 * time.Second):
			So("no notification", ShouldBeEmpty)
		}
	})

	Convey("A live subscription pins its entry against eviction", t, func() {
		store := New(Options{GCWindow: 50 * time.Millisecond})
		defer store.Teardown()

		pinned := NewKey("services")
		loose := NewKey("metrics")

		recPinned := testutil.NewFetchRecorder("pinned")
		recLoose := testutil.NewFetchRecorder("loose")

		unsubscribe := store.Subscribe(pinned, func(Result) {})
		defer unsubscribe()

		store.Read(pinned, recPinned.Fetch, time.Hour)
		store.Read(loose, recLoose.Fetch, time.Hour)
		So(eventually(func() bool {
			return recPinned.Calls() == 1 && recLoose.Calls() == 1
		}), ShouldBeTrue)

		time.Sleep(200 * time.Millisecond)

		var got string
		hit, _ := store.Get(pinned, &got)
		So(hit, ShouldBeTrue)

		hit, _ = store.Get(loose, &got)
		So(hit, ShouldBeFalse)
	})
}

func TestGet(t *testing.T) {
	Convey("Get copies into a typed result", t, func() {
		store := New(Options{})
		defer store.Teardown()

		key := NewKey("score")
		recorder := testutil.NewFetchRecorder(42)

		store.Read(key, recorder.Fetch, time.Minute)
		So(eventually(func() bool {
			var got int
			hit, _ := store.Get(key, &got)
			return hit && got == 42
		}), ShouldBeTrue)

		Convey("And errors on a mismatched result type", func() {
			var wrong string
			_, err := store.Get(key, &wrong)
			So(err, ShouldNotBeNil)
		})
	})
}
