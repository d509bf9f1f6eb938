package form

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownField is returned when a field name does not match any Field
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidValue is returned when a value has the wrong type for a field
	ErrInvalidValue = errors.New("invalid value for field")
)

// Field identifies one attribute of FormData.
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldAddress
	FieldPhone
	FieldAgreement
)

// Fields lists every field in display order.
var Fields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldAddress,
	FieldPhone,
	FieldAgreement,
}

// String returns the field key used in data files and region identifiers
func (f Field) String() string {
	switch f {
	case FieldFirstName:
		return "firstName"
	case FieldLastName:
		return "lastName"
	case FieldAddress:
		return "address"
	case FieldPhone:
		return "phone"
	case FieldAgreement:
		return "agreement"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// Label returns the Japanese label shown next to the input
func (f Field) Label() string {
	switch f {
	case FieldFirstName:
		return "姓"
	case FieldLastName:
		return "名"
	case FieldAddress:
		return "住所"
	case FieldPhone:
		return "電話番号"
	case FieldAgreement:
		return "利用規約"
	default:
		return ""
	}
}

// Placeholder returns the placeholder text for text fields.
// The agreement checkbox has no placeholder.
func (f Field) Placeholder() string {
	switch f {
	case FieldFirstName:
		return "山田"
	case FieldLastName:
		return "太郎"
	case FieldAddress:
		return "東京都渋谷区..."
	case FieldPhone:
		return "090-0000-0000"
	default:
		return ""
	}
}

// IsText reports whether the field holds a string value
func (f Field) IsText() bool {
	return f != FieldAgreement && f.valid()
}

func (f Field) valid() bool {
	return f >= FieldFirstName && f <= FieldAgreement
}

// ParseField converts a field key (case-insensitive) into a Field
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}
