package names

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError reports the first rule a request broke.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validator checks requests before any provider is called.
type Validator struct {
	// RequireStyles rejects requests with an empty styles list.
	RequireStyles bool
}

// Validate returns nil or a *ValidationError. Rules are checked in order and
// the first failure wins.
func (v Validator) Validate(req Request) error {
	if strings.TrimSpace(req.Genre) == "" {
		return &ValidationError{Field: "genre", Message: "Invalid input: genre is required"}
	}

	if req.Styles == nil {
		return &ValidationError{Field: "styles", Message: "Invalid input: styles must be a list"}
	}
	if v.RequireStyles && len(cleanStyles(req.Styles)) == 0 {
		return &ValidationError{Field: "styles", Message: "Invalid input: styles array must contain at least one style"}
	}

	if req.Complexity.IsSet() {
		c, err := req.Complexity.Float()
		if err != nil || !inRange(c, MinComplexity, MaxComplexity) {
			return &ValidationError{
				Field:   "complexity",
				Message: fmt.Sprintf("Complexity must be between %d and %d", MinComplexity, MaxComplexity),
			}
		}
	}

	if req.Count.IsSet() {
		n, err := req.Count.Float()
		if err != nil || !inRange(n, MinCount, MaxCount) || n != math.Trunc(n) {
			return &ValidationError{
				Field:   "count",
				Message: fmt.Sprintf("Count must be between %d and %d", MinCount, MaxCount),
			}
		}
	}

	switch req.Gender {
	case "", GenderNeutral, GenderMasculine, GenderFeminine:
	default:
		return &ValidationError{Field: "gender", Message: "Gender must be 'neutral', 'masculine', or 'feminine'"}
	}

	switch req.Length {
	case "", LengthShort, LengthMedium, LengthLong:
	default:
		return &ValidationError{Field: "length", Message: "Length must be 'short', 'medium', or 'long'"}
	}

	return nil
}

func inRange(v float64, lo, hi int) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= float64(lo) && v <= float64(hi)
}
