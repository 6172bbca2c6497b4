package randx

// Choice pairs a variant with its relative weight.
type Choice[T any] struct {
	Value  T
	Weight float64
}

// C is shorthand for building a Choice.
func C[T any](value T, weight float64) Choice[T] {
	return Choice[T]{Value: value, Weight: weight}
}

// Pick selects one variant with probability proportional to its weight.
// Non-positive weights never win. If every weight is non-positive the
// pick is uniform. An empty slice yields the zero value.
func Pick[T any](s *Source, choices []Choice[T]) T {
	var zero T
	if len(choices) == 0 {
		return zero
	}

	total := 0.0
	for _, c := range choices {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return choices[s.IntN(len(choices))].Value
	}

	r := s.Float64() * total
	for _, c := range choices {
		if c.Weight <= 0 {
			continue
		}
		if r < c.Weight {
			return c.Value
		}
		r -= c.Weight
	}

	// Floating point residue lands on the last positive choice.
	for i := len(choices) - 1; i >= 0; i-- {
		if choices[i].Weight > 0 {
			return choices[i].Value
		}
	}
	return zero
}

// Uniform selects one element with equal probability.
func Uniform[T any](s *Source, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[s.IntN(len(items))]
}
