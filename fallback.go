package taxreform

// Chain is an ordered list of candidate values where zero stands for "not
// supplied". Resolve returns the first candidate that is not zero.
type Chain[T interface{ IsZero() bool }] []T

// Resolve returns the first non-zero candidate, or the zero value of T when
// every candidate is zero.
func (c Chain[T]) Resolve() T {
	for _, v := range c {
		if !v.IsZero() {
			return v
		}
	}
	var zero T
	return zero
}
