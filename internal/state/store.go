package state

// Store owns a State and applies actions through the reducer. It is an
// explicitly passed dependency, not an ambient global. Dispatch applies
// actions synchronously in call order; the store is meant to be driven from
// a single goroutine, matching the event-driven model, and takes no locks.
type Store struct {
	state     State
	listeners []func(State)
}

// NewStore creates a Store at the initial state.
func NewStore() *Store {
	return &Store{state: Initial()}
}

// State returns the current snapshot.
func (st *Store) State() State {
	return st.state
}

// Dispatch applies one action and notifies listeners with the new snapshot.
func (st *Store) Dispatch(a Action) {
	st.state = Reduce(st.state, a)
	for _, fn := range st.listeners {
		fn(st.state)
	}
}

// Subscribe registers a render hook invoked after every dispatch.
func (st *Store) Subscribe(fn func(State)) {
	st.listeners = append(st.listeners, fn)
}
