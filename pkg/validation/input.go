package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxInputLength is the hard cap applied by SanitizeInput to every text field.
const MaxInputLength = 2000

// MsgRequired is the single error reported for an empty required field.
const MsgRequired = "Ce champ est obligatoire"

// Rule describes the constraints for one form field.
type Rule struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Custom    func(value string) bool
}

// Result is the outcome of validating a single field value.
type Result struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`
}

// FirstError returns the first message, or "" when the value is valid.
func (r Result) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

var (
	// Latin letters (Latin-1 accents included), spaces, apostrophes and hyphens
	NamePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s'-]+$`)

	EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// digits, spaces and + ( ) -
	PhonePattern = regexp.MustCompile(`^[\d\s+()-]+$`)
)

var nameRule = Rule{Required: true, MinLength: 2, MaxLength: 100, Pattern: NamePattern}

// Rules is the static rule table keyed by form field name. Both form types share it.
var Rules = map[string]Rule{
	"fullName":     nameRule,
	"name":         nameRule,
	"email":        {Required: true, MaxLength: 254, Pattern: EmailPattern},
	"phone":        {Required: true, MinLength: 10, MaxLength: 20, Pattern: PhonePattern},
	"company":      {Required: true, MinLength: 2, MaxLength: 200},
	"position":     {Required: true, MinLength: 2, MaxLength: 100},
	"skills":       {Required: true, MinLength: 5, MaxLength: 500},
	"software":     {Required: true, MinLength: 2, MaxLength: 300},
	"experience":   {Required: true, MinLength: 2, MaxLength: 300},
	"availability": {Required: true, MinLength: 2, MaxLength: 100},
	"details":      {Required: true, MinLength: 10, MaxLength: 2000},
	"message":      {Required: false, MaxLength: 1000},
}

// Validate checks value against rule. An empty required value yields exactly
// one error; otherwise every failing constraint is reported.
func Validate(value string, rule Rule) Result {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		if rule.Required {
			return Result{Valid: false, Errors: []string{MsgRequired}}
		}
		return Result{Valid: true, Errors: []string{}}
	}

	errs := []string{}
	length := utf8.RuneCountInString(trimmed)

	if rule.MinLength > 0 && length < rule.MinLength {
		errs = append(errs, fmt.Sprintf("Minimum %d caractères requis", rule.MinLength))
	}
	if rule.MaxLength > 0 && length > rule.MaxLength {
		errs = append(errs, fmt.Sprintf("Maximum %d caractères autorisés", rule.MaxLength))
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(trimmed) {
		errs = append(errs, "Format invalide")
	}
	if rule.Custom != nil && !rule.Custom(trimmed) {
		errs = append(errs, "Valeur invalide")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ValidateFormData applies the rule table to every field present in data.
// Fields without a rule are ignored.
func ValidateFormData(data map[string]string) map[string]Result {
	results := make(map[string]Result, len(data))
	for field, value := range data {
		rule, ok := Rules[field]
		if !ok {
			continue
		}
		results[field] = Validate(value, rule)
	}
	return results
}

// ValidEmail reports whether email has the standard local@domain.tld shape
// and fits in 254 characters.
func ValidEmail(email string) bool {
	return utf8.RuneCountInString(email) <= 254 && EmailPattern.MatchString(email)
}

// SanitizeInput removes angle brackets and caps the value at MaxInputLength
// characters. Applying it twice is the same as applying it once.
func SanitizeInput(raw string) string {
	cleaned := strings.NewReplacer("<", "", ">", "").Replace(raw)
	if utf8.RuneCountInString(cleaned) <= MaxInputLength {
		return cleaned
	}
	return string([]rune(cleaned)[:MaxInputLength])
}

// SanitizeTrimmed trims surrounding whitespace, then applies SanitizeInput.
// The server uses it on every string it receives.
func SanitizeTrimmed(raw string) string {
	return SanitizeInput(strings.TrimSpace(raw))
}
