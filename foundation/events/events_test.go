package events_test

import (
	"fmt"
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/events"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to fan out events to receivers.")
	{
		evts := events.New()

		ch1 := evts.Acquire("1")
		ch2 := evts.Acquire("2")

		if evts.Acquire("1") != ch1 {
			t.Fatalf("\t%s\tShould get the same channel for the same id.", failed)
		}
		t.Logf("\t%s\tShould get the same channel for the same id.", success)

		evts.Send("block mined")

		for i, ch := range []<-chan string{ch1, ch2} {
			if got := <-ch; got != "block mined" {
				t.Fatalf("\t%s\tShould receive the event on receiver %d: got %q", failed, i, got)
			}
			t.Logf("\t%s\tShould receive the event on receiver %d.", success, i)
		}

		if err := evts.Release("1"); err != nil {
			t.Fatalf("\t%s\tShould be able to release a receiver: %v", failed, err)
		}
		if _, open := <-ch1; open {
			t.Fatalf("\t%s\tShould close a released channel.", failed)
		}
		t.Logf("\t%s\tShould close a released channel.", success)

		if err := evts.Release("1"); err == nil {
			t.Fatalf("\t%s\tShould fail to release an unknown id.", failed)
		}
		t.Logf("\t%s\tShould fail to release an unknown id.", success)

		// A full receiver drops messages instead of blocking the sender.
		for i := range 150 {
			evts.Send(fmt.Sprintf("msg %d", i))
		}
		if got := len(ch2); got != 100 {
			t.Fatalf("\t%s\tShould buffer up to 100 events: got %d", failed, got)
		}
		t.Logf("\t%s\tShould buffer up to 100 events.", success)

		evts.Shutdown()
		if evts.Len() != 0 {
			t.Fatalf("\t%s\tShould remove every receiver on shutdown.", failed)
		}
		for range ch2 {
		}
		t.Logf("\t%s\tShould close every channel on shutdown.", success)
	}
}
