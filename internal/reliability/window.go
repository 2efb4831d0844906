package reliability

// appendBounded appends v to a window capped at capacity entries,
// dropping the oldest first. Memory stays bounded deterministically.
func appendBounded[T any](window []T, v T, capacity int) []T {
	window = append(window, v)
	if len(window) > capacity {
		window = window[len(window)-capacity:]
	}
	return window
}

// mean returns the arithmetic mean of the samples, zero when empty.
func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

// variance returns the population variance of the counts.
func variance(counts []int) float64 {
	if len(counts) == 0 {
		return 0
	}
	sum := 0
	for _, c := range counts {
		sum += c
	}
	avg := float64(sum) / float64(len(counts))

	var ss float64
	for _, c := range counts {
		d := float64(c) - avg
		ss += d * d
	}
	return ss / float64(len(counts))
}
