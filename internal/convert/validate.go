// Package convert turns raw user utterances into API-exact values. A
// syntactic validator runs first, then the normalization oracle.
package convert

import (
	"errors"
	"regexp"
	"strings"
)

var reEmail = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.]+`)

// Validate runs the per-kind acceptance check for a raw answer. The field's
// kind is inferred from its key; first match wins. A nil return means
// accepted. Rejection messages are shown to the user as-is.
func Validate(fieldKey, value string) error {
	key := strings.ToLower(fieldKey)

	if strings.Contains(key, "email") || strings.Contains(key, "attendee") {
		if !reEmail.MatchString(value) {
			return errors.New("Please enter a valid email address (e.g. name@example.com)")
		}
		return nil
	}

	if strings.Contains(key, "datetime") || strings.Contains(key, "date") || strings.Contains(key, "time") {
		// Natural language is fine here; the normalizer handles format.
		if value == "" {
			return errors.New("Please enter a date/time")
		}
		return nil
	}

	if strings.Contains(key, "repo") || strings.Contains(key, "repository") {
		if !strings.Contains(value, "/") && !strings.Contains(key, "owner") {
			return errors.New("Please use format owner/repo (e.g. composiohq/composio)")
		}
		return nil
	}

	if value == "" {
		return errors.New("This field is required")
	}

	return nil
}
