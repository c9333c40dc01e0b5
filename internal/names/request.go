// Package names holds the request model, validation, prompt construction and
// response parsing for character name generation.
package names

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Gender is the gender leaning of generated names.
type Gender string

const (
	GenderNeutral   Gender = "neutral"
	GenderMasculine Gender = "masculine"
	GenderFeminine  Gender = "feminine"
)

// Length controls how many components a name has.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

const (
	MinComplexity = 1
	MaxComplexity = 10
	MinCount      = 1
	MaxCount      = 100

	DefaultComplexity = 5
	DefaultCount      = 10
	DefaultGender     = GenderNeutral
	DefaultLength     = LengthMedium
)

// Number is an optional numeric field. It decodes from a JSON number or a
// numeric string and keeps the raw text so validation can reject garbage.
type Number struct {
	raw string
	set bool
}

// N returns a set Number holding v.
func N(v float64) Number {
	return Number{raw: strconv.FormatFloat(v, 'f', -1, 64), set: true}
}

// NumberFromString returns a set Number holding the raw text s.
func NumberFromString(s string) Number {
	return Number{raw: strings.TrimSpace(s), set: true}
}

func (n Number) IsSet() bool { return n.set }

// Float parses the raw value.
func (n Number) Float() (float64, error) {
	if !n.set {
		return 0, fmt.Errorf("number not set")
	}
	return strconv.ParseFloat(n.raw, 64)
}

func (n Number) String() string { return n.raw }

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumberFromString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("number: %w", err)
	}
	*n = Number{raw: num.String(), set: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(n.raw, 64); err == nil {
		return []byte(n.raw), nil
	}
	return json.Marshal(n.raw)
}

// Request describes the names a caller wants.
type Request struct {
	Genre      string   `json:"genre"`
	Styles     []string `json:"styles"`
	Race       string   `json:"race,omitempty"`
	Gender     Gender   `json:"gender,omitempty"`
	Length     Length   `json:"length,omitempty"`
	Complexity Number   `json:"complexity"`
	Count      Number   `json:"count"`
}

// Defaulted is a validated request with every optional field resolved.
type Defaulted struct {
	Genre      string   `json:"genre"`
	Styles     []string `json:"styles"`
	Race       string   `json:"race,omitempty"`
	Gender     Gender   `json:"gender"`
	Length     Length   `json:"length"`
	Complexity float64  `json:"complexity"`
	Count      int      `json:"count"`
}

// WithDefaults resolves optional fields. The request must have passed
// validation; unparsable numbers fall back to defaults.
func WithDefaults(req Request) Defaulted {
	d := Defaulted{
		Genre:      strings.TrimSpace(req.Genre),
		Styles:     cleanStyles(req.Styles),
		Race:       strings.TrimSpace(req.Race),
		Gender:     req.Gender,
		Length:     req.Length,
		Complexity: DefaultComplexity,
		Count:      DefaultCount,
	}
	if d.Gender == "" {
		d.Gender = DefaultGender
	}
	if d.Length == "" {
		d.Length = DefaultLength
	}
	if v, err := req.Complexity.Float(); err == nil {
		d.Complexity = v
	}
	if v, err := req.Count.Float(); err == nil {
		d.Count = int(v)
	}
	return d
}

func cleanStyles(styles []string) []string {
	out := make([]string, 0, len(styles))
	for _, s := range styles {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Result is the outcome of a generation attempt.
type Result struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Names    []string `json:"names"`
	Provider string   `json:"provider,omitempty"`
}

// Failure returns an unsuccessful result with an empty, non-nil name list.
func Failure(message string) Result {
	return Result{Success: false, Message: message, Names: []string{}}
}
