package storage

import (
	"sync"
	"testing"

	"github.com/wippyai/hostcell/fault"
)

func TestLatchBeginDestroy(t *testing.T) {
	var l LifecycleLatch
	if l.Get() != Alive {
		t.Fatal("zero latch should be alive")
	}

	if !l.BeginDestroy() {
		t.Fatal("first BeginDestroy should win")
	}
	if l.Get() != Destroying {
		t.Fatal("latch should be destroying")
	}
	if l.BeginDestroy() {
		t.Fatal("second BeginDestroy must lose")
	}
}

func TestLatchExactlyOneWinner(t *testing.T) {
	var l LifecycleLatch

	const entrants = 16
	var wg sync.WaitGroup
	wins := make(chan bool, entrants)
	for i := 0; i < entrants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- l.BeginDestroy()
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("exactly one teardown entry must claim the latch, got %d", winners)
	}
}

func TestLatchReviveIsAFault(t *testing.T) {
	var l LifecycleLatch
	l.Set(Destroying)

	expectFaultPanic(t, fault.KindRevived, func() { l.Set(Alive) })
}

func TestLatchSetForward(t *testing.T) {
	var l LifecycleLatch
	l.Set(Alive) // alive to alive is fine
	l.Set(Destroying)
	if l.Get() != Destroying {
		t.Fatal("set should move the latch forward")
	}
	l.Set(Destroying) // terminal state is idempotent
}
