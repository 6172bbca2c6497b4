package assembly

// State carries values that must agree between segments of one
// transaction: control numbers and declared counts.
type State struct {
	values map[string]string
}

// NewState creates an empty State.
func NewState() *State {
	return &State{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *State) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores the value under key, replacing any earlier one.
func (s *State) Set(key, value string) {
	s.values[key] = value
}
