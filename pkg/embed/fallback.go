package embed

import (
	"math"
	"strings"
)

// Fallback computes a deterministic pseudo-embedding without any model:
// per-character sine accumulation plus per-word hash buckets, then L2
// normalization. The same text always produces the same vector.
func Fallback(text string, dim int) []float32 {
	v := make([]float32, dim)
	if text == "" {
		return v
	}

	for _, r := range text {
		idx := int(r) % dim
		v[idx] += float32(math.Sin(float64(r)*0.1) * 0.1)
	}

	for _, word := range strings.Fields(strings.ToLower(text)) {
		idx := int(abs64(int64(polyHash(word)))) % dim
		v[idx] += 0.1
	}

	return normalize(v)
}

// polyHash is the 31-based rolling hash over the word's runes.
func polyHash(word string) int32 {
	var h int32
	for _, r := range word {
		h = 31*h + int32(r)
	}
	return h
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
