package types

// Result is the outcome of a gateway operation. Value is always renderable:
// on success it is the parsed domain object, when Degraded it is the
// operation's sentinel and Reason says why.
type Result[T any] struct {
	Value    T
	Degraded bool
	Reason   error
}

// Success wraps a value produced by a healthy round trip.
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Degrade wraps a sentinel value used in place of a failed round trip.
func Degrade[T any](sentinel T, reason error) Result[T] {
	return Result[T]{Value: sentinel, Degraded: true, Reason: reason}
}

// OK reports whether the result came from a healthy round trip.
func (r Result[T]) OK() bool { return !r.Degraded }
