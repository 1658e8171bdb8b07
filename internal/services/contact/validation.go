package contact

import (
	"fmt"
	"net/mail"

	"github.com/telbook/telbook/internal/db/models"
)

// Per-field validation messages.
const (
	msgRequired     = "This field is required."
	msgBlank        = "This field may not be blank."
	msgInvalidPhone = "Invalid phone number format."
	msgInvalidEmail = "Enter a valid email address."
)

func msgMaxLen(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

// Input carries the client-supplied contact fields. Pointers distinguish
// absent fields from empty ones, which matters for partial updates. There is
// no owner field here: ownership is derived from the authenticated user and
// any owner key in a request body is silently dropped during decoding.
type Input struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// ValidationError reports per-field validation failures.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// Validate checks the input and returns a map of field name to error
// messages, empty when the input is valid. With partial set, absent fields
// are not required; supplied fields are validated either way.
func (in Input) Validate(partial bool) map[string][]string {
	fields := make(map[string][]string)

	validate := func(name string, value *string, rules func(string) []string) {
		if value == nil {
			if !partial {
				fields[name] = []string{msgRequired}
			}
			return
		}
		if *value == "" {
			fields[name] = []string{msgBlank}
			return
		}
		if msgs := rules(*value); len(msgs) > 0 {
			fields[name] = msgs
		}
	}

	nameRules := func(v string) []string {
		if len(v) > models.NameMaxLen {
			return []string{msgMaxLen(models.NameMaxLen)}
		}
		return nil
	}

	validate("first_name", in.FirstName, nameRules)
	validate("last_name", in.LastName, nameRules)

	validate("phone", in.Phone, func(v string) []string {
		var msgs []string
		if len(v) > models.PhoneMaxLen {
			msgs = append(msgs, msgMaxLen(models.PhoneMaxLen))
		}
		if !models.ValidPhone(v) {
			msgs = append(msgs, msgInvalidPhone)
		}
		return msgs
	})

	validate("email", in.Email, func(v string) []string {
		if _, err := mail.ParseAddress(v); err != nil {
			return []string{msgInvalidEmail}
		}
		return nil
	})

	return fields
}
