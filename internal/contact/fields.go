package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// AllFields lists the form fields in display order.
var AllFields = []Field{FieldName, FieldEmail, FieldMessage}

var ErrUnknownField = errors.New("contact: unknown field")

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FieldName, FieldEmail, FieldMessage:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Validation messages shown inline next to the offending field.
const (
	MsgNameRequired    = "Name is required"
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Email is invalid"
	MsgMessageRequired = "Message is required"
)

// emailPattern is deliberately loose: local@domain.tld with no whitespace or
// extra '@'. Tightening it would reject addresses users can submit today.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Values struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (v Values) Get(f Field) string {
	switch f {
	case FieldName:
		return v.Name
	case FieldEmail:
		return v.Email
	case FieldMessage:
		return v.Message
	}
	return ""
}

func (v *Values) set(f Field, s string) {
	switch f {
	case FieldName:
		v.Name = s
	case FieldEmail:
		v.Email = s
	case FieldMessage:
		v.Message = s
	}
}

func (v Values) IsZero() bool { return v == Values{} }

// FieldErrors maps a field to its message; a passing field has no entry.
type FieldErrors map[Field]string

func (fe FieldErrors) clone() FieldErrors {
	out := make(FieldErrors, len(fe))
	for k, v := range fe {
		out[k] = v
	}
	return out
}

// Err joins the messages into one error (nil when empty), in field order.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	errs := make([]error, 0, len(fe))
	for _, f := range AllFields {
		if msg, ok := fe[f]; ok {
			errs = append(errs, ValidationError{Field: f, Message: msg})
		}
	}
	return errors.Join(errs...)
}

type ValidationResult struct {
	Valid  bool        `json:"valid"`
	Errors FieldErrors `json:"errors"`
}

// ValidateField returns the message for a single field, or "" when it passes.
func ValidateField(f Field, value string) string {
	switch f {
	case FieldName:
		if strings.TrimSpace(value) == "" {
			return MsgNameRequired
		}
	case FieldEmail:
		if strings.TrimSpace(value) == "" {
			return MsgEmailRequired
		}
		if !emailPattern.MatchString(value) {
			return MsgEmailInvalid
		}
	case FieldMessage:
		if strings.TrimSpace(value) == "" {
			return MsgMessageRequired
		}
	}
	return ""
}

// Validate checks every field and always returns the full error mapping.
func Validate(v Values) ValidationResult {
	errs := FieldErrors{}
	for _, f := range AllFields {
		if msg := ValidateField(f, v.Get(f)); msg != "" {
			errs[f] = msg
		}
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
