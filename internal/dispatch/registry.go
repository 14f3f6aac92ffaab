// Package dispatch implements the callback registry that routes decoded
// stanzas to caller-registered predicate/action pairs (spec.md §4.5).
package dispatch

import (
	"errors"
	"sync"

	"github.com/dantte-lp/gowa/internal/stanza"
)

// Predicate reports whether a stanza matches a registered record.
type Predicate func(n *stanza.Node) bool

// Action runs when a record's predicate matches. It returns the value to
// hand back to a waiting caller, or an error to propagate instead.
type Action func(n *stanza.Node) (any, error)

// Record pairs a predicate with an action and tracks how many times it
// has fired. called and result are mutated only during Dispatch; callers
// observe them only between dispatcher iterations (spec.md §5).
type Record struct {
	Name      string
	Predicate Predicate
	Action    Action

	called int
	result any
	err    error
}

// Called reports how many times this record's action has run.
func (r *Record) Called() int {
	return r.called
}

// Result returns the value and error from the most recent action
// invocation. Before the first call both are zero values.
func (r *Record) Result() (any, error) {
	return r.result, r.err
}

// ErrPumpRequired is returned by WaitFor and WaitForAny when pump is nil;
// both need a way to drive the network before a record's predicate can
// ever match.
var ErrPumpRequired = errors.New("dispatch: pump function required")

// Registry holds, per stanza name, the ordered list of records registered
// against it. Predicates for a given name fire in registration order
// (spec.md §5, ordering guarantee 4).
type Registry struct {
	mu      sync.Mutex
	records map[string][]*Record
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string][]*Record)}
}

// Register appends r to the list kept under r.Name.
func (reg *Registry) Register(r *Record) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.records[r.Name] = append(reg.records[r.Name], r)
}

// Unregister removes r from its name's list, if present.
func (reg *Registry) Unregister(r *Record) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	list := reg.records[r.Name]
	for i, candidate := range list {
		if candidate == r {
			reg.records[r.Name] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Dispatch runs every record registered under n.Name whose predicate
// matches n, in registration order, incrementing each matched record's
// called counter. It returns the number of records whose predicate
// matched, so callers can track unmatched ("dropped") stanzas.
func (reg *Registry) Dispatch(n *stanza.Node) int {
	reg.mu.Lock()
	list := append([]*Record(nil), reg.records[n.Name]...)
	reg.mu.Unlock()

	matched := 0

	for _, r := range list {
		if !r.Predicate(n) {
			continue
		}

		matched++

		result, err := r.Action(n)

		reg.mu.Lock()
		r.called++
		r.result = result
		r.err = err
		reg.mu.Unlock()
	}

	return matched
}

// Pump drives one iteration of the network loop. WaitFor and WaitForAny
// call it repeatedly until their stop condition is met.
type Pump func() error

// WaitFor runs pump until r.called > 0, then unregisters r. If r's last
// action returned an error, WaitFor propagates it; otherwise it returns
// r's result (spec.md §4.5).
func (reg *Registry) WaitFor(r *Record, pump Pump) (any, error) {
	if pump == nil {
		return nil, ErrPumpRequired
	}

	for r.Called() == 0 {
		if err := pump(); err != nil {
			return nil, err
		}
	}

	reg.Unregister(r)

	return r.Result()
}

// WaitForAny runs pump until any record in rs has called > 0, then
// unregisters all of them and returns that record's result.
func (reg *Registry) WaitForAny(rs []*Record, pump Pump) (any, error) {
	if pump == nil {
		return nil, ErrPumpRequired
	}

	for {
		for _, r := range rs {
			if r.Called() > 0 {
				for _, other := range rs {
					reg.Unregister(other)
				}

				return r.Result()
			}
		}

		if err := pump(); err != nil {
			return nil, err
		}
	}
}
