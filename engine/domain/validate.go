package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// VIN format: 17 alphanumeric characters, excluding I, O, Q.
var vinRegex = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// Injection patterns: SQL/NoSQL fragments that should never appear in a
// user chat message.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(DROP|DELETE|INSERT|UPDATE|ALTER|EXEC|UNION)\b.*\b(TABLE|FROM|INTO|SELECT|SET)\b`),
	regexp.MustCompile(`(?i)(--|;)\s*(DROP|DELETE|SELECT)`),
	regexp.MustCompile(`(?i)\$\{.*\}`),
	regexp.MustCompile(`(?i)\{\s*"\$[a-z]+"\s*:`),
}

const minChatLength = 3

// ValidateVehicle validates a Vehicle prior to registration. The make is
// matched case-insensitively and through known aliases; callers should
// store the canonical form returned by CanonicalMake.
func ValidateVehicle(v Vehicle) error {
	canonical, ok := CanonicalMake(v.Make)
	if !ok {
		return NewValidationError("make", v.Make, ErrUnsupportedMake)
	}

	found := false
	for _, m := range SupportedMakes[canonical] {
		if strings.EqualFold(m, v.Model) {
			found = true
			break
		}
	}
	if !found {
		return NewValidationError("model", v.Model, ErrUnsupportedModel)
	}

	if v.Year < MinModelYear || v.Year > MaxModelYear {
		return NewValidationError("year", fmt.Sprintf("%d", v.Year), ErrYearOutOfRange)
	}

	// VIN is optional but must be well-formed when present.
	if v.VIN != "" && !vinRegex.MatchString(strings.ToUpper(v.VIN)) {
		return NewValidationError("vin", v.VIN, ErrInvalidVIN)
	}

	return nil
}

// ValidateTask validates a maintenance task draft before it enters the
// store.
func ValidateTask(t MaintenanceTask) error {
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", t.Title, ErrEmptyTitle)
	}
	if !ValidTaskCategories[t.Category] {
		return NewValidationError("category", string(t.Category), ErrInvalidCategory)
	}
	if t.Date.IsZero() {
		return NewValidationError("date", "", ErrMissingDate)
	}
	return nil
}

// ValidateChatText gates raw chat input at the transport boundary. The
// resolver itself never errors; this keeps garbage out before it gets
// there.
func ValidateChatText(text string) error {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minChatLength {
		return NewValidationError("message", trimmed, ErrInputTooShort)
	}
	for _, pat := range injectionPatterns {
		if pat.MatchString(trimmed) {
			return NewValidationError("message", trimmed, ErrInputInjection)
		}
	}
	return nil
}
