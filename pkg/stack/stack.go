package stack

import "errors"

var ErrOverflow = errors.New("stack capacity exceeded")

type Stack[T any] struct {
	a     []T
	l     int
	limit int // 0 means unbounded
}

// NewStack creates a new stack holding at most limit elements (0 = unbounded)
func NewStack[T any](limit int, elm ...T) *Stack[T] {
	stack := Stack[T]{
		a:     make([]T, 0, len(elm)),
		l:     0,
		limit: limit,
	}

	for _, e := range elm {
		stack.l++
		stack.a = append(stack.a, e)
	}

	return &stack
}

// Push adds an element to the top of the stack
func (s *Stack[T]) Push(elm T) error {
	if s.limit > 0 && s.l >= s.limit {
		return ErrOverflow
	}

	s.l++
	s.a = append(s.a, elm)

	return nil
}

// Pop removes and returns the top element of the stack
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if s.l < 1 {
		return zero, false
	}

	s.l--
	elm := s.a[s.l]
	s.a[s.l] = zero
	s.a = s.a[:s.l]

	return elm, true
}

// Peek returns the top element of the stack without removing it
func (s *Stack[T]) Peek() (T, bool) {
	var zero T
	if s.l < 1 {
		return zero, false
	}

	return s.a[s.l-1], true
}

// Get the size of the stack
func (s *Stack[T]) Size() int {
	return s.l
}

// Limit returns the maximum size, 0 when unbounded
func (s *Stack[T]) Limit() int {
	return s.limit
}

// Clear drops every element
func (s *Stack[T]) Clear() {
	clear(s.a)
	s.a = s.a[:0]
	s.l = 0
}

// Array returns the underlying array of the stack, bottom first
func (s *Stack[T]) Array() []T {
	return s.a
}
