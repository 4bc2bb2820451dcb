package cojoiner

import (
	"fmt"
	"strings"

	apperrors "github.com/agbru/cojoin/internal/errors"
)

// Strategy names, as printed in the results.
const (
	NoneName           = "NoneCojoiner"
	WaitNotifyName     = "WaitNotifyCojoiner"
	CountdownLatchName = "CountDownLatchCojoiner"
	VolatileSpinName   = "VolatileSpinCojoiner"
	PhaserName         = "PhaserCojoiner"
	CyclicBarrierName  = "CyclicBarrierCojoiner"
)

// Constructor builds a fresh cojoiner for a trial with the given number of
// workers.
type Constructor func(workers int) Cojoiner

// Strategy pairs a printable name with its constructor.
type Strategy struct {
	Name string
	New  Constructor
}

// Factory is an ordered registry of strategies.
type Factory struct {
	strategies []Strategy
	byKey      map[string]int
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{byKey: make(map[string]int)}
}

// NewDefaultFactory returns the six strategies in their canonical run order.
func NewDefaultFactory() *Factory {
	f := NewFactory()
	f.Register(NoneName, func(int) Cojoiner { return NewNone() })
	f.Register(WaitNotifyName, func(int) Cojoiner { return NewWaitNotify() })
	f.Register(CountdownLatchName, func(int) Cojoiner { return NewCountdownLatch() })
	f.Register(VolatileSpinName, func(int) Cojoiner { return NewVolatileSpin() })
	f.Register(PhaserName, NewPhaser)
	f.Register(CyclicBarrierName, NewCyclicBarrier)
	return f
}

// Register appends a strategy. Registering an existing name replaces its
// constructor in place.
func (f *Factory) Register(name string, ctor Constructor) {
	key := lookupKey(name)
	if i, ok := f.byKey[key]; ok {
		f.strategies[i].New = ctor
		return
	}
	f.byKey[key] = len(f.strategies)
	f.strategies = append(f.strategies, Strategy{Name: name, New: ctor})
}

// List returns the registered names in run order.
func (f *Factory) List() []string {
	names := make([]string, len(f.strategies))
	for i, s := range f.strategies {
		names[i] = s.Name
	}
	return names
}

// GetAll returns every registered strategy in run order.
func (f *Factory) GetAll() []Strategy {
	out := make([]Strategy, len(f.strategies))
	copy(out, f.strategies)
	return out
}

// Get looks a strategy up by name. Matching ignores case and an optional
// "Cojoiner" suffix, so "waitnotify" finds WaitNotifyCojoiner.
func (f *Factory) Get(name string) (Strategy, error) {
	if i, ok := f.byKey[lookupKey(name)]; ok {
		return f.strategies[i], nil
	}
	return Strategy{}, fmt.Errorf("unknown strategy %q (available: %s)", name, strings.Join(f.List(), ", "))
}

// Select resolves a selection of names, or "all", into strategies in run
// order. Duplicates are dropped. An unknown name is a ConfigError.
func (f *Factory) Select(names []string) ([]Strategy, error) {
	if len(names) == 0 {
		return f.GetAll(), nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if strings.EqualFold(n, "all") {
			return f.GetAll(), nil
		}
		s, err := f.Get(n)
		if err != nil {
			return nil, apperrors.NewConfigError("%v", err)
		}
		want[s.Name] = true
	}
	var out []Strategy
	for _, s := range f.strategies {
		if want[s.Name] {
			out = append(out, s)
		}
	}
	return out, nil
}

func lookupKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(key, "cojoiner")
}

func coordinationError(strategy string, err error) error {
	return apperrors.CoordinationError{Strategy: strategy, Cause: err}
}
