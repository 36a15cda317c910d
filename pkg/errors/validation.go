package errors

import (
	"math"
	"strings"
)

// MaxItemCount caps the number of items a single run may request.
const MaxItemCount = 320000

// ValidateItemCount rejects non-positive and oversized item counts.
func ValidateItemCount(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidInput, "item count must be a positive integer, got %d", n)
	}
	if n > MaxItemCount {
		return New(ErrCodeInvalidInput, "item count %d exceeds the maximum of %d", n, MaxItemCount)
	}
	return nil
}

// ValidateCapacity rejects capacities that are not strictly positive finite numbers.
func ValidateCapacity(c float64) error {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return New(ErrCodeInvalidCapacity, "capacity must be finite, got %v", c)
	}
	if c <= 0 {
		return New(ErrCodeInvalidCapacity, "capacity must be positive, got %v", c)
	}
	return nil
}

// ValidateItem checks that weight and value are strictly positive finite numbers.
func ValidateItem(id int, weight, value float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return New(ErrCodeInvalidItem, "item %d: weight must be a positive finite number, got %v", id, weight)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return New(ErrCodeInvalidItem, "item %d: value must be a positive finite number, got %v", id, value)
	}
	return nil
}

// ValidateAlgorithm checks name against the known algorithm names.
// Matching is case-insensitive; surrounding whitespace is ignored.
func ValidateAlgorithm(name string, known []string) error {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return New(ErrCodeInvalidAlgorithm, "algorithm name cannot be empty")
	}
	for _, k := range known {
		if n == k {
			return nil
		}
	}
	return New(ErrCodeInvalidAlgorithm, "unknown algorithm %q (must be one of: %s)", name, strings.Join(known, ", "))
}
