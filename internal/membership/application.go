// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package membership parses membership request issues and renders the
// comments posted back to them.
package membership

import (
	"fmt"
	"regexp"
	"strings"
)

// Template field labels, as they appear in the issue body.
const (
	FieldUsername     = "GitHub username"
	FieldWhyJoin      = "Why I want to join"
	FieldContribution = "What I can contribute"
)

// RequiredFields lists the template fields in the order they are presented.
var RequiredFields = []string{FieldUsername, FieldWhyJoin, FieldContribution}

var fieldPatterns = map[string]*regexp.Regexp{
	FieldUsername:     fieldPattern(FieldUsername),
	FieldWhyJoin:      fieldPattern(FieldWhyJoin),
	FieldContribution: fieldPattern(FieldContribution),
}

// fieldPattern matches "Label: value" at the start of a line, allowing
// indentation and a list marker in front of the label.
func fieldPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*(?:[-*][ \t]+)?` + regexp.QuoteMeta(label) + `:[ \t]*(.*)$`)
}

// Application is the data extracted from a membership request body.
type Application struct {
	RequestedUsername string `json:"requested_username"`
	WhyJoin           string `json:"why_join"`
	Contribution      string `json:"contribution"`
}

// MissingFieldsError reports the template fields that could not be extracted.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// ParseApplication extracts the three required fields from an issue body.
// Each field is located independently, so their order in the body does not
// matter. A label with nothing after the colon counts as missing.
func ParseApplication(body string) (*Application, error) {
	values := make(map[string]string, len(RequiredFields))
	var missing []string

	for _, field := range RequiredFields {
		value, ok := extractField(body, fieldPatterns[field])
		if !ok {
			missing = append(missing, field)
			continue
		}
		values[field] = value
	}

	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	return &Application{
		RequestedUsername: values[FieldUsername],
		WhyJoin:           values[FieldWhyJoin],
		Contribution:      values[FieldContribution],
	}, nil
}

// extractField returns the first non-empty value captured by re.
func extractField(body string, re *regexp.Regexp) (string, bool) {
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		if v := strings.TrimSpace(m[1]); v != "" {
			return v, true
		}
	}
	return "", false
}

// IsCommand reports whether a comment body is exactly the given command once
// surrounding whitespace is trimmed.
func IsCommand(body, command string) bool {
	return strings.TrimSpace(body) == command
}
