package runtime

import "slices"

// Frame holds the bindings of one block.
type Frame struct {
	values map[string]Value
}

func newFrame() *Frame {
	return &Frame{values: make(map[string]Value)}
}

// Scope is a stack of frames: the active top frame plus suspended outer
// frames, innermost last. Frames are shared by reference between a scope and
// the closures captured from it.
type Scope struct {
	top   *Frame
	outer []*Frame
}

// NewScope creates a scope with a single root frame.
func NewScope() *Scope {
	return &Scope{top: newFrame()}
}

// Push opens a new block frame.
func (s *Scope) Push() {
	s.outer = append(s.outer, s.top)
	s.top = newFrame()
}

// Pop closes the top frame. Popping the root frame is a programming error.
func (s *Scope) Pop() {
	if len(s.outer) == 0 {
		panic("runtime: pop of root scope frame")
	}
	s.top = s.outer[len(s.outer)-1]
	s.outer = s.outer[:len(s.outer)-1]
}

// Depth reports the number of frames, root included.
func (s *Scope) Depth() int {
	return len(s.outer) + 1
}

// Declare binds name in the top frame only. Shadowing outer frames is allowed.
func (s *Scope) Declare(name string, value Value) error {
	if _, exists := s.top.values[name]; exists {
		return Errorf(DuplicateDeclaration, "'%s' is already declared in this scope", name)
	}
	s.top.values[name] = value
	return nil
}

// Resolve searches from the top frame outward.
func (s *Scope) Resolve(name string) (Value, bool) {
	if v, ok := s.top.values[name]; ok {
		return v, true
	}
	for i := len(s.outer) - 1; i >= 0; i-- {
		if v, ok := s.outer[i].values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign updates the innermost existing binding of name.
func (s *Scope) Assign(name string, value Value) error {
	if _, ok := s.top.values[name]; ok {
		s.top.values[name] = value
		return nil
	}
	for i := len(s.outer) - 1; i >= 0; i-- {
		if _, ok := s.outer[i].values[name]; ok {
			s.outer[i].values[name] = value
			return nil
		}
	}
	return Errorf(UndefinedVariable, "'%s' is not defined", name)
}

// Capture returns a scope over the same frames. Later pushes and pops on
// either scope do not affect the other, but bindings are shared.
func (s *Scope) Capture() *Scope {
	return &Scope{top: s.top, outer: slices.Clone(s.outer)}
}

// Names returns every visible name in sorted order.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})
	for _, f := range append(slices.Clone(s.outer), s.top) {
		for name := range f.values {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
