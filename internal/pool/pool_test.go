package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agbru/cojoin/internal/rendezvous"
)

func TestSubmitRunsTask(t *testing.T) {
	p := New(time.Second)
	defer p.Shutdown()

	var ran atomic.Bool
	f, err := p.Submit(func(*rendezvous.Party) error {
		ran.Store(true)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Wait(); err != nil {
		t.Fatalf("Wait = %v", err)
	}
	if !ran.Load() {
		t.Error("task did not run")
	}
}

func TestFutureCarriesTaskError(t *testing.T) {
	p := New(time.Second)
	defer p.Shutdown()

	want := errors.New("payload failed")
	f, _ := p.Submit(func(*rendezvous.Party) error { return want })
	if err := f.Wait(); !errors.Is(err, want) {
		t.Errorf("Wait = %v, want %v", err, want)
	}
}

func TestPanicBecomesError(t *testing.T) {
	p := New(time.Second)
	defer p.Shutdown()

	f, _ := p.Submit(func(*rendezvous.Party) error { panic("boom") })
	err := f.Wait()
	if !errors.Is(err, ErrTaskPanicked) {
		t.Fatalf("Wait = %v, want ErrTaskPanicked", err)
	}

	// The worker must survive for reuse.
	f, _ = p.Submit(func(*rendezvous.Party) error { return nil })
	if err := f.Wait(); err != nil {
		t.Errorf("task after panic: %v", err)
	}
}

func TestSubmitNeverBlocks(t *testing.T) {
	p := New(time.Second)
	defer p.Shutdown()

	const n = 32
	gate := make(chan struct{})
	futures := make([]*Future, n)
	for i := 0; i < n; i++ {
		f, err := p.Submit(func(*rendezvous.Party) error {
			<-gate
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		futures[i] = f
	}
	if got := p.Workers(); got != n {
		t.Errorf("Workers = %d while %d tasks block, want %d", got, n, n)
	}
	close(gate)
	for _, f := range futures {
		if err := f.Wait(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestIdleWorkersAreReused(t *testing.T) {
	p := New(time.Minute)
	defer p.Shutdown()

	const batch = 8
	for round := 0; round < 20; round++ {
		var wg sync.WaitGroup
		gate := make(chan struct{})
		futures := make([]*Future, batch)
		wg.Add(batch)
		for i := 0; i < batch; i++ {
			futures[i], _ = p.Submit(func(*rendezvous.Party) error {
				wg.Done()
				<-gate
				return nil
			})
		}
		wg.Wait()
		close(gate)
		for _, f := range futures {
			f.Wait()
		}
		waitIdle(t, p, p.Workers())
	}
	if got := p.Workers(); got > batch {
		t.Errorf("Workers = %d after repeated batches of %d, want reuse", got, batch)
	}
}

func TestIdleWorkersExpire(t *testing.T) {
	p := New(20 * time.Millisecond)
	defer p.Shutdown()

	f, _ := p.Submit(func(*rendezvous.Party) error { return nil })
	f.Wait()

	deadline := time.Now().Add(5 * time.Second)
	for p.Workers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("idle worker did not exit, Workers = %d", p.Workers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestShutdownDrainsAndRejects(t *testing.T) {
	p := New(time.Minute)

	var finished atomic.Bool
	started := make(chan struct{})
	f, _ := p.Submit(func(*rendezvous.Party) error {
		close(started)
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
		return nil
	})
	<-started

	p.Shutdown()
	if !finished.Load() {
		t.Error("Shutdown returned before the running task finished")
	}
	if err := f.Wait(); err != nil {
		t.Error(err)
	}
	if p.Workers() != 0 {
		t.Errorf("Workers = %d after Shutdown", p.Workers())
	}
	if _, err := p.Submit(func(*rendezvous.Party) error { return nil }); !errors.Is(err, ErrPoolShutdown) {
		t.Errorf("Submit after Shutdown = %v, want ErrPoolShutdown", err)
	}
	p.Shutdown()
}

func TestFutureInterrupt(t *testing.T) {
	p := New(time.Second)
	defer p.Shutdown()

	latch := rendezvous.NewLatch(1)
	f, _ := p.Submit(func(party *rendezvous.Party) error {
		return latch.Await(party)
	})
	time.Sleep(10 * time.Millisecond)
	f.Interrupt()

	if err := f.Wait(); !errors.Is(err, rendezvous.ErrInterrupted) {
		t.Errorf("Wait = %v, want ErrInterrupted", err)
	}
}

func waitIdle(t *testing.T, p *Pool, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for p.Idle() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Idle = %d, want %d", p.Idle(), n)
		}
		time.Sleep(time.Millisecond)
	}
}
