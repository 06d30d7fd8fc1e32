package navstack

import "github.com/notagain-app/notagain-core/routes"

// Entry is one active route on the navigation stack.
type Entry struct {
	Route  routes.Route
	Params routes.Params
}

// Stack is the ordered sequence of active route entries. It is mutated
// only by the Controller and is never empty while the app is foregrounded.
type Stack struct {
	entries []Entry
}

// Depth returns the number of entries.
func (s *Stack) Depth() int {
	return len(s.entries)
}

// Top returns the current top entry. ok is false only before the
// controller has seeded the stack.
func (s *Stack) Top() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Entries returns a copy of the stack, bottom first.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Stack) push(e Entry) {
	s.entries = append(s.entries, e)
}

func (s *Stack) replaceAll(e Entry) {
	s.entries = s.entries[:0]
	s.entries = append(s.entries, e)
}

// pop removes the top entry unless that would empty the stack.
func (s *Stack) pop() bool {
	if len(s.entries) <= 1 {
		return false
	}
	s.entries = s.entries[:len(s.entries)-1]
	return true
}
