package form

import (
	"fmt"
	"strings"
)

// FormData holds everything the dialog collects.
// The zero value is the initial, empty form.
type FormData struct {
	FirstName string `yaml:"firstName" json:"firstName"`
	LastName  string `yaml:"lastName" json:"lastName"`
	Address   string `yaml:"address" json:"address"`
	Phone     string `yaml:"phone" json:"phone"`
	Agreement bool   `yaml:"agreement" json:"agreement"`
}

// Set overwrites a single field. Text fields take a string and the
// agreement field takes a bool.
func (d *FormData) Set(field Field, value any) error {
	if !field.valid() {
		return fmt.Errorf("%w: %v", ErrUnknownField, field)
	}

	if field == FieldAgreement {
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w %s: want bool, got %T", ErrInvalidValue, field, value)
		}
		d.Agreement = b
		return nil
	}

	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w %s: want string, got %T", ErrInvalidValue, field, value)
	}

	switch field {
	case FieldFirstName:
		d.FirstName = s
	case FieldLastName:
		d.LastName = s
	case FieldAddress:
		d.Address = s
	case FieldPhone:
		d.Phone = s
	}
	return nil
}

// Text returns the value of a text field, or "" for the agreement field
func (d FormData) Text(field Field) string {
	switch field {
	case FieldFirstName:
		return d.FirstName
	case FieldLastName:
		return d.LastName
	case FieldAddress:
		return d.Address
	case FieldPhone:
		return d.Phone
	default:
		return ""
	}
}

// FullName joins first and last name the way the confirmation view shows it.
// An empty form yields an empty string, not a lone separator.
func (d FormData) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// Errors maps a field to its user-facing message.
// A missing key means the field has no error.
type Errors map[Field]string

// Has reports whether the field currently has an error
func (e Errors) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for a field, or ""
func (e Errors) Get(field Field) string {
	return e[field]
}

// Fields returns the failing fields in display order
func (e Errors) Fields() []Field {
	var out []Field
	for _, f := range Fields {
		if e.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Merge returns a new Errors holding the entries of both sets.
// Entries in other win on conflict.
func (e Errors) Merge(other Errors) Errors {
	out := make(Errors, len(e)+len(other))
	for f, msg := range e {
		out[f] = msg
	}
	for f, msg := range other {
		out[f] = msg
	}
	return out
}

// Clone returns an independent copy
func (e Errors) Clone() Errors {
	return e.Merge(nil)
}

// Keys returns the failing field keys, useful for logging
func (e Errors) Keys() []string {
	fields := e.Fields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.String()
	}
	return keys
}

// Messages returns the error messages in display order
func (e Errors) Messages() []string {
	fields := e.Fields()
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = e[f]
	}
	return msgs
}

// Err returns nil for an empty set and a *ValidationError otherwise
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Errors: e.Clone()}
}

// ValidationError reports a form that failed its field rules
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d invalid field(s): %s", len(e.Errors), strings.Join(e.Errors.Keys(), ", "))
}

// Issues returns one message per invalid field
func (e *ValidationError) Issues() []string {
	return e.Errors.Messages()
}

// Agreement markers shown on the confirmation step
const (
	AgreedMarker    = "✓ 同意済み"
	NotAgreedMarker = "✗ 未同意"
)

// SummaryRow is one line of the confirmation summary
type SummaryRow struct {
	Label string
	Value string
}

// AgreementStatus returns the marker for the agreement field
func (d FormData) AgreementStatus() string {
	if d.Agreement {
		return AgreedMarker
	}
	return NotAgreedMarker
}

// Summary returns the confirmation rows in display order.
// Empty fields stay empty; placeholders are never substituted.
func (d FormData) Summary() []SummaryRow {
	return []SummaryRow{
		{Label: "氏名", Value: d.FullName()},
		{Label: FieldAddress.Label(), Value: d.Address},
		{Label: FieldPhone.Label(), Value: d.Phone},
		{Label: FieldAgreement.Label(), Value: d.AgreementStatus()},
	}
}
