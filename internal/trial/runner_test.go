package trial

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/cojoin/internal/clock"
	"github.com/agbru/cojoin/internal/cojoiner"
	"github.com/agbru/cojoin/internal/cojoiner/mocks"
	apperrors "github.com/agbru/cojoin/internal/errors"
	"github.com/agbru/cojoin/internal/pool"
	"github.com/agbru/cojoin/internal/rendezvous"
)

// countingSubmitter forwards to a pool and counts accepted submissions.
type countingSubmitter struct {
	pool      *pool.Pool
	submitted atomic.Int32
	failAfter int32
}

func (s *countingSubmitter) Submit(task pool.Task) (*pool.Future, error) {
	if s.failAfter > 0 && s.submitted.Load() >= s.failAfter {
		return nil, pool.ErrPoolShutdown
	}
	f, err := s.pool.Submit(task)
	if err == nil {
		s.submitted.Add(1)
	}
	return f, err
}

func newPool(t *testing.T) *pool.Pool {
	t.Helper()
	p := pool.New(time.Minute)
	t.Cleanup(p.Shutdown)
	return p
}

func TestRunAllStrategies(t *testing.T) {
	const parties = 4
	p := newPool(t)

	for _, s := range cojoiner.NewDefaultFactory().GetAll() {
		t.Run(s.Name, func(t *testing.T) {
			var executions atomic.Int64
			r := &Runner{
				Parties: parties,
				Pool:    p,
				Payload: func() error { executions.Add(1); return nil },
			}
			const trials = 200
			for i := 0; i < trials; i++ {
				res, err := r.Run(s.New(parties))
				if err != nil {
					t.Fatalf("trial %d: %v", i, err)
				}
				if len(res.Skews) != parties {
					t.Fatalf("got %d skews, want %d", len(res.Skews), parties)
				}
				checkSkewInvariants(t, res)
			}
			if got := executions.Load(); got != trials*parties {
				t.Errorf("payload ran %d times, want %d", got, trials*parties)
			}
		})
	}
}

func checkSkewInvariants(t *testing.T, res Result) {
	t.Helper()
	var min int64 = -1
	var total int64
	for _, s := range res.Skews {
		if s < 0 {
			t.Fatalf("negative skew %d", s)
		}
		if min < 0 || s < min {
			min = s
		}
		total += s
	}
	if min != 0 {
		t.Fatalf("smallest skew = %d, want 0", min)
	}
	if total != res.Total {
		t.Fatalf("Total = %d, sum of skews = %d", res.Total, total)
	}
}

func TestSignalAfterAllSubmissions(t *testing.T) {
	const parties = 6
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockCojoiner(ctrl)
	sub := &countingSubmitter{pool: newPool(t)}

	mock.EXPECT().RunWaiter(gomock.Any()).Times(parties).Return(nil)
	mock.EXPECT().RunSignaller().Times(1).DoAndReturn(func() error {
		if n := sub.submitted.Load(); n != parties {
			t.Errorf("signalled after %d submissions, want %d", n, parties)
		}
		return nil
	})

	r := &Runner{Parties: parties, Pool: sub}
	if _, err := r.Run(mock); err != nil {
		t.Fatal(err)
	}
}

func TestWorkerFailureFailsTrial(t *testing.T) {
	p := newPool(t)
	boom := errors.New("payload failed")
	var calls atomic.Int32

	r := &Runner{
		Parties: 4,
		Pool:    p,
		Payload: func() error {
			if calls.Add(1) == 2 {
				return boom
			}
			return nil
		},
	}
	_, err := r.Run(cojoiner.NewCountdownLatch())
	if !errors.Is(err, boom) {
		t.Fatalf("Run = %v, want %v", err, boom)
	}
}

func TestPanickingPayloadFailsTrial(t *testing.T) {
	r := &Runner{Parties: 3, Pool: newPool(t), Payload: func() error { panic("kaboom") }}
	if _, err := r.Run(cojoiner.NewNone()); !errors.Is(err, pool.ErrTaskPanicked) {
		t.Fatalf("Run = %v, want ErrTaskPanicked", err)
	}
}

func TestWaiterFailureFailsTrial(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockCojoiner(ctrl)
	broken := apperrors.CoordinationError{Strategy: "mock", Cause: rendezvous.ErrBrokenBarrier}

	mock.EXPECT().RunWaiter(gomock.Any()).Times(2).Return(broken)
	mock.EXPECT().RunSignaller().Return(nil)

	r := &Runner{Parties: 2, Pool: newPool(t)}
	_, err := r.Run(mock)
	var coordErr apperrors.CoordinationError
	if !errors.As(err, &coordErr) {
		t.Fatalf("Run = %v, want CoordinationError", err)
	}
}

func TestSubmitFailureReleasesAcceptedWorkers(t *testing.T) {
	for _, s := range cojoiner.NewDefaultFactory().GetAll() {
		t.Run(s.Name, func(t *testing.T) {
			p := pool.New(time.Minute)
			sub := &countingSubmitter{pool: p, failAfter: 2}
			r := &Runner{Parties: 4, Pool: sub}

			_, err := r.Run(s.New(4))
			if !errors.Is(err, pool.ErrPoolShutdown) {
				t.Fatalf("Run = %v, want ErrPoolShutdown", err)
			}
			if got := sub.submitted.Load(); got != 2 {
				t.Fatalf("submitted = %d, want 2", got)
			}

			done := make(chan struct{})
			go func() {
				p.Shutdown()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatalf("Shutdown blocked: %d workers still parked", p.Workers()-p.Idle())
			}
		})
	}
}

func TestRunRejectsNonPositiveParties(t *testing.T) {
	r := &Runner{Parties: 0, Pool: newPool(t)}
	_, err := r.Run(cojoiner.NewNone())
	var configErr apperrors.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("Run = %v, want ConfigError", err)
	}
}

// parkedFirst delays the signal until every worker has entered RunWaiter.
type parkedFirst struct {
	cojoiner.Cojoiner
	arrived sync.WaitGroup
}

func (c *parkedFirst) RunWaiter(p *rendezvous.Party) error {
	c.arrived.Done()
	return c.Cojoiner.RunWaiter(p)
}

func (c *parkedFirst) RunSignaller() error {
	c.arrived.Wait()
	time.Sleep(time.Millisecond)
	return c.Cojoiner.RunSignaller()
}

// TestCountdownLatchParkedWorkersStartTogether releases four workers that
// are already parked on the latch and expects them to start within 1ms of
// each other in at least one of several attempts.
func TestCountdownLatchParkedWorkersStartTogether(t *testing.T) {
	const parties = 4
	r := &Runner{Parties: parties, Pool: newPool(t), Clock: clock.Monotonic}

	best := time.Hour
	for attempt := 0; attempt < 10; attempt++ {
		c := &parkedFirst{Cojoiner: cojoiner.NewCountdownLatch()}
		c.arrived.Add(parties)
		res, err := r.Run(c)
		if err != nil {
			t.Fatal(err)
		}
		checkSkewInvariants(t, res)
		if d := time.Duration(res.Max); d < best {
			best = d
		}
	}
	if best >= time.Millisecond {
		t.Errorf("best max skew = %v, want < 1ms", best)
	}
}

func TestSkewsFixedClock(t *testing.T) {
	var ticks atomic.Int64
	clk := clock.Func(func() int64 { return ticks.Add(10) })
	r := &Runner{Parties: 3, Pool: newPool(t), Clock: clk}

	res, err := r.Run(cojoiner.NewCountdownLatch())
	if err != nil {
		t.Fatal(err)
	}
	if res.Max != 20 || res.Total != 30 {
		t.Errorf("Max/Total = %d/%d, want 20/30 for stamps 10,20,30", res.Max, res.Total)
	}
}
