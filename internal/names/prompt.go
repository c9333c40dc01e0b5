package names

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldName is the JSON key providers are told to put the names under.
const FieldName = "names"

// Prompt is the provider-neutral instruction set for one request.
type Prompt struct {
	System  string
	User    string
	Example string
}

// Combined joins system and user text for providers that take one string.
func (p Prompt) Combined() string {
	return p.System + "\n\n" + p.User
}

// BuildPrompt renders the instructions for a defaulted request.
func BuildPrompt(req Defaulted) Prompt {
	example := exampleObject(req.Count)

	var b strings.Builder
	b.WriteString("You are an expert at generating creative names for game characters with specific themes and styles.\n\n")
	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "- Generate EXACTLY %d unique character names that match the given attributes\n", req.Count)
	fmt.Fprintf(&b, "- Genre: %s\n", req.Genre)
	if len(req.Styles) > 0 {
		fmt.Fprintf(&b, "- Styles: [%s]\n", strings.Join(req.Styles, ", "))
	} else {
		b.WriteString("- Styles: none. No styles were supplied; use themes typical of the genre\n")
	}
	if req.Race != "" {
		fmt.Fprintf(&b, "- Race: %s. Use phonetic patterns that fit this race in fantasy and gaming traditions\n", req.Race)
	}
	fmt.Fprintf(&b, "- Gender association: %s\n", req.Gender)
	fmt.Fprintf(&b, "- Name length: %s. %s\n", req.Length, lengthGuide(req.Length))
	fmt.Fprintf(&b, "- Complexity level: %s/%d. %s\n", formatComplexity(req.Complexity), MaxComplexity, complexityGuide(req.Complexity))
	b.WriteString("\nOutput format:\n")
	fmt.Fprintf(&b, "- Respond with ONLY a JSON object containing one array field %q with exactly %d strings\n", FieldName, req.Count)
	b.WriteString("- Do not add any explanation, markdown or text before or after the JSON\n")
	b.WriteString("- Always close the array with ] and the object with }\n")
	fmt.Fprintf(&b, "\nExample of the expected response:\n%s", example)

	user, err := json.Marshal(req)
	if err != nil {
		user = []byte(req.Genre)
	}

	return Prompt{System: b.String(), User: string(user), Example: example}
}

func exampleObject(count int) string {
	placeholders := make([]string, count)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("Name%d", i+1)
	}
	b, _ := json.Marshal(map[string][]string{FieldName: placeholders})
	return string(b)
}

func lengthGuide(l Length) string {
	switch l {
	case LengthShort:
		return "Each name is a single simple word that is easy to remember."
	case LengthLong:
		return "Each name has multiple parts (for example given name, family name and epithet), never more than three parts."
	default:
		return "Each name has one or two parts."
	}
}

// complexityGuide describes what a complexity level means. Higher levels ask
// for rarer letters and spelling, not for longer names.
func complexityGuide(c float64) string {
	switch {
	case c <= 2:
		return "Use familiar, common-sounding names with plain spelling."
	case c <= 4:
		return "Use mostly familiar names with a slight twist in spelling."
	case c <= 6:
		return "Use distinctive names with some uncommon letter combinations."
	case c <= 8:
		return "Use exotic names with unusual letters such as x, z, q or y and creative spelling."
	default:
		return "Use highly unusual names with rare letter combinations, apostrophes or diacritics."
	}
}

func formatComplexity(c float64) string {
	if c == float64(int(c)) {
		return fmt.Sprintf("%d", int(c))
	}
	return fmt.Sprintf("%.1f", c)
}
