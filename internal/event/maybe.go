package event

// Maybe is a tagged present/absent wrapper around a derived value. Optional
// fields are checked explicitly before use instead of riding on nil
// pointers.
type Maybe[T any] struct {
	Value   T
	Present bool
}

// Some wraps a present value.
func Some[T any](v T) Maybe[T] { return Maybe[T]{Value: v, Present: true} }

// None returns the absent wrapper.
func None[T any]() Maybe[T] { return Maybe[T]{} }
