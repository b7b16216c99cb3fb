package board

import "sync"

// ViewState is what the view store holds.
type ViewState struct {
	Mode    ViewMode
	Options ViewOptions
}

// ViewStore holds the active view mode and options of the board screen.
// It lives from board mount until Reset on navigation away.
type ViewStore struct {
	mu        sync.Mutex
	state     ViewState
	listeners map[int]func(ViewState)
	nextID    int
}

func NewViewStore() *ViewStore {
	return &ViewStore{
		state:     ViewState{Mode: ViewKanban, Options: DefaultViewOptions()},
		listeners: make(map[int]func(ViewState)),
	}
}

func (s *ViewStore) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

func (s *ViewStore) Mode() ViewMode {
	return s.State().Mode
}

func (s *ViewStore) Options() ViewOptions {
	return s.State().Options
}

func (s *ViewStore) SetMode(mode ViewMode) {
	s.update(func(st *ViewState) { st.Mode = mode })
}

// SetOptions replaces the options as a whole.
func (s *ViewStore) SetOptions(opts ViewOptions) {
	s.update(func(st *ViewState) { st.Options = opts })
}

// Reset restores defaults.
func (s *ViewStore) Reset() {
	s.update(func(st *ViewState) {
		*st = ViewState{Mode: ViewKanban, Options: DefaultViewOptions()}
	})
}

// Subscribe registers fn to run after every write; the returned func removes it.
func (s *ViewStore) Subscribe(fn func(ViewState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Materialize derives the current view from columns.
func (s *ViewStore) Materialize(columns []Column) View {
	st := s.State()
	return Materialize(st.Mode, columns, st.Options)
}

func (s *ViewStore) update(fn func(*ViewState)) {
	s.mu.Lock()
	fn(&s.state)
	s.state = cloneState(s.state)
	state := cloneState(s.state)
	listeners := make([]func(ViewState), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}

func cloneState(st ViewState) ViewState {
	if st.Options.ActiveFilters != nil {
		st.Options.ActiveFilters = append([]Filter(nil), st.Options.ActiveFilters...)
	}
	return st
}
