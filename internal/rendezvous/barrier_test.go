package rendezvous

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

// waitForWaiting polls until n parties are parked on b.
func waitForWaiting(t *testing.T, b *Barrier, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for b.NumberWaiting() != n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d parties, have %d", n, b.NumberWaiting())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewBarrierPanicsOnNonPositive(t *testing.T) {
	for _, n := range []int{0, -3} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewBarrier(%d) should panic", n)
				}
			}()
			NewBarrier(n)
		}()
	}
}

func TestBarrierSingleParty(t *testing.T) {
	b := NewBarrier(1)
	for i := 0; i < 3; i++ {
		idx, err := b.Await(nil)
		if err != nil || idx != 0 {
			t.Fatalf("Await = (%d, %v), want (0, nil)", idx, err)
		}
	}
}

func TestBarrierReleasesOnLastArrival(t *testing.T) {
	const parties = 8
	b := NewBarrier(parties)

	var wg sync.WaitGroup
	indices := make([]int, parties)
	errs := make([]error, parties)
	wg.Add(parties)
	for i := 0; i < parties; i++ {
		go func(i int) {
			defer wg.Done()
			indices[i], errs[i] = b.Await(NewParty())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("party %d: %v", i, err)
		}
	}
	sort.Ints(indices)
	for i, idx := range indices {
		if idx != i {
			t.Fatalf("arrival indices = %v, want 0..%d", indices, parties-1)
		}
	}
	if b.NumberWaiting() != 0 {
		t.Errorf("NumberWaiting = %d after trip, want 0", b.NumberWaiting())
	}
}

func TestBarrierIsCyclic(t *testing.T) {
	const parties, rounds = 4, 50
	b := NewBarrier(parties)
	var wg sync.WaitGroup
	wg.Add(parties)
	for i := 0; i < parties; i++ {
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				if _, err := b.Await(nil); err != nil {
					t.Errorf("round %d: %v", r, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestBarrierInterruptBreaks(t *testing.T) {
	b := NewBarrier(3)
	victim := NewParty()
	other := NewParty()

	victimErr := make(chan error, 1)
	otherErr := make(chan error, 1)
	go func() { _, err := b.Await(victim); victimErr <- err }()
	go func() { _, err := b.Await(other); otherErr <- err }()
	waitForWaiting(t, b, 2)

	victim.Interrupt()

	if err := <-victimErr; !errors.Is(err, ErrInterrupted) {
		t.Errorf("interrupted party got %v, want ErrInterrupted", err)
	}
	if err := <-otherErr; !errors.Is(err, ErrBrokenBarrier) {
		t.Errorf("other party got %v, want ErrBrokenBarrier", err)
	}
	if !b.IsBroken() {
		t.Fatal("barrier should be broken")
	}
	if _, err := b.Await(nil); !errors.Is(err, ErrBrokenBarrier) {
		t.Errorf("late arrival got %v, want ErrBrokenBarrier", err)
	}
}

func TestBarrierArrivalWithPendingInterrupt(t *testing.T) {
	b := NewBarrier(2)
	p := NewParty()
	p.Interrupt()
	if _, err := b.Await(p); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Await = %v, want ErrInterrupted", err)
	}
	if !b.IsBroken() {
		t.Error("barrier should be broken by an interrupted arrival")
	}
}

func TestBarrierReset(t *testing.T) {
	b := NewBarrier(2)
	errc := make(chan error, 1)
	go func() { _, err := b.Await(nil); errc <- err }()
	waitForWaiting(t, b, 1)

	b.Reset()
	if err := <-errc; !errors.Is(err, ErrBrokenBarrier) {
		t.Errorf("waiter got %v, want ErrBrokenBarrier", err)
	}
	if b.IsBroken() {
		t.Fatal("barrier should be usable after Reset")
	}

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			if _, err := b.Await(nil); err != nil {
				t.Errorf("Await after Reset: %v", err)
			}
		}()
	}
	wg.Wait()
}
