package names

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validRequest() Request {
	return Request{Genre: "fantasy", Styles: []string{"medieval", "nordic"}}
}

func TestValidateAcceptsMinimalRequest(t *testing.T) {
	if err := (Validator{}).Validate(validRequest()); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Request)
		field string
		msg   string
	}{
		{"missing genre", func(r *Request) { r.Genre = "" }, "genre", "Invalid input: genre is required"},
		{"blank genre", func(r *Request) { r.Genre = "   " }, "genre", "Invalid input: genre is required"},
		{"nil styles", func(r *Request) { r.Styles = nil }, "styles", "Invalid input: styles must be a list"},
		{"complexity low", func(r *Request) { r.Complexity = N(0) }, "complexity", "Complexity must be between 1 and 10"},
		{"complexity high", func(r *Request) { r.Complexity = N(11) }, "complexity", "Complexity must be between 1 and 10"},
		{"complexity text", func(r *Request) { r.Complexity = NumberFromString("lots") }, "complexity", "Complexity must be between 1 and 10"},
		{"complexity nan", func(r *Request) { r.Complexity = NumberFromString("NaN") }, "complexity", "Complexity must be between 1 and 10"},
		{"count zero", func(r *Request) { r.Count = N(0) }, "count", "Count must be between 1 and 100"},
		{"count high", func(r *Request) { r.Count = N(101) }, "count", "Count must be between 1 and 100"},
		{"count fraction", func(r *Request) { r.Count = N(2.5) }, "count", "Count must be between 1 and 100"},
		{"gender", func(r *Request) { r.Gender = "other" }, "gender", "Gender must be 'neutral', 'masculine', or 'feminine'"},
		{"length", func(r *Request) { r.Length = "huge" }, "length", "Length must be 'short', 'medium', or 'long'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.edit(&req)
			err := (Validator{}).Validate(req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field || verr.Message != tc.msg {
				t.Fatalf("unexpected error: field=%s msg=%q", verr.Field, verr.Message)
			}
		})
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	req := Request{Genre: "", Styles: nil, Complexity: N(99)}
	err := (Validator{}).Validate(req)
	if err == nil || !strings.Contains(err.Error(), "genre") {
		t.Fatalf("expected genre failure first, got %v", err)
	}
}

func TestValidateRequireStyles(t *testing.T) {
	req := validRequest()
	req.Styles = []string{" ", ""}
	if err := (Validator{}).Validate(req); err != nil {
		t.Fatalf("lenient validator should accept empty styles: %v", err)
	}
	err := (Validator{RequireStyles: true}).Validate(req)
	if err == nil || err.Error() != "Invalid input: styles array must contain at least one style" {
		t.Fatalf("unexpected strict result: %v", err)
	}
}

func TestValidateBoundsAccepted(t *testing.T) {
	for _, c := range []float64{1, 5.5, 10} {
		req := validRequest()
		req.Complexity = N(c)
		req.Count = N(100)
		if err := (Validator{}).Validate(req); err != nil {
			t.Fatalf("complexity %v: %v", c, err)
		}
	}
}

func TestRequestDecodesNumericStrings(t *testing.T) {
	var req Request
	body := `{"genre":"sci-fi","styles":[],"complexity":"7","count":4,"gender":"feminine"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := (Validator{}).Validate(req); err != nil {
		t.Fatalf("validate: %v", err)
	}
	d := WithDefaults(req)
	if d.Complexity != 7 || d.Count != 4 || d.Gender != GenderFeminine || d.Length != LengthMedium {
		t.Fatalf("unexpected defaults: %+v", d)
	}
}

func TestWithDefaults(t *testing.T) {
	d := WithDefaults(Request{Genre: " horror ", Styles: []string{"demonic", " "}})
	if d.Genre != "horror" || len(d.Styles) != 1 {
		t.Fatalf("unexpected cleanup: %+v", d)
	}
	if d.Complexity != DefaultComplexity || d.Count != DefaultCount || d.Gender != GenderNeutral || d.Length != LengthMedium {
		t.Fatalf("unexpected defaults: %+v", d)
	}
}

func TestNumberJSON(t *testing.T) {
	var n Number
	if err := json.Unmarshal([]byte("null"), &n); err != nil || n.IsSet() {
		t.Fatalf("null should leave number unset: %v %v", err, n)
	}
	b, err := json.Marshal(N(3))
	if err != nil || string(b) != "3" {
		t.Fatalf("marshal: %s %v", b, err)
	}
	b, err = json.Marshal(NumberFromString("abc"))
	if err != nil || string(b) != `"abc"` {
		t.Fatalf("marshal text: %s %v", b, err)
	}
}
