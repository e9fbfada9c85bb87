package dice

// Shuffle performs an in-place Fisher-Yates shuffle over n elements,
// calling swap(i, j) for each exchange.
//
// Precondition: src must be non-nil; swap must be non-nil; n >= 0.
// Postcondition: The permutation is uniform over all n! orderings given a
// uniform Source.
func Shuffle(n int, src Source, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

// Between returns a uniform random int in the inclusive range [low, high].
//
// Precondition: low <= high; src must be non-nil.
func Between(low, high int, src Source) int {
	if low == high {
		return low
	}
	return low + src.Intn(high-low+1)
}
