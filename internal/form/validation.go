package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/muurk/stepdialog/internal/logging"
)

// phonePattern accepts 070/080/090 mobile numbers and landlines with a
// 1-4 digit area code and exchange followed by a 4 digit subscriber number.
var phonePattern = regexp.MustCompile(`^(070|080|090)-?\d{4}-?\d{4}$|^0\d{1,4}-?\d{1,4}-?\d{4}$`)

// IsBlank reports whether s is empty after trimming whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidPhone reports whether phone looks like a Japanese phone number.
// Hyphens are ignored.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.ReplaceAll(phone, "-", ""))
}

// Accepted reports whether the terms checkbox is ticked
func Accepted(agreement bool) bool {
	return agreement
}

// PersonalInfo is the schema checked on the first step
type PersonalInfo struct {
	FirstName string `label:"姓" validate:"notblank"`
	LastName  string `label:"名" validate:"notblank"`
}

// ContactInfo is the schema checked on the second step and again on submit
type ContactInfo struct {
	Address   string `label:"住所" validate:"notblank"`
	Phone     string `label:"電話番号" validate:"notblank,phone"`
	Agreement bool   `label:"利用規約" validate:"accepted"`
}

// PersonalInfo projects the name fields
func (d FormData) PersonalInfo() PersonalInfo {
	return PersonalInfo{FirstName: d.FirstName, LastName: d.LastName}
}

// ContactInfo projects the contact fields
func (d FormData) ContactInfo() ContactInfo {
	return ContactInfo{Address: d.Address, Phone: d.Phone, Agreement: d.Agreement}
}

// Message templates keyed by validation tag. {0} is the field label.
var messageTemplates = map[string]string{
	"notblank": "{0}を入力してください",
	"phone":    "正しい{0}の形式で入力してください（例: 090-1234-5678）",
	"accepted": "{0}への同意が必要です",
}

// schemaFields maps schema struct field names back to Field
var schemaFields = map[string]Field{
	"FirstName": FieldFirstName,
	"LastName":  FieldLastName,
	"Address":   FieldAddress,
	"Phone":     FieldPhone,
	"Agreement": FieldAgreement,
}

// Schema validates form data against the step schemas and renders
// failures as Japanese messages.
type Schema struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewSchema builds a Schema with the custom tags and translations registered
func NewSchema() (*Schema, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	rules := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return !IsBlank(fl.Field().String())
		},
		"phone": func(fl validator.FieldLevel) bool {
			return ValidPhone(fl.Field().String())
		},
		"accepted": func(fl validator.FieldLevel) bool {
			return fl.Field().Kind() == reflect.Bool && Accepted(fl.Field().Bool())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %q rule: %w", tag, err)
		}
	}

	locale := ja.New()
	uni := ut.New(locale, locale)
	trans, found := uni.GetTranslator(locale.Locale())
	if !found {
		return nil, fmt.Errorf("translator for %q not found", locale.Locale())
	}

	for tag, text := range messageTemplates {
		if err := v.RegisterTranslation(tag, trans, registerMessage(tag, text), translateMessage); err != nil {
			return nil, fmt.Errorf("failed to register %q message: %w", tag, err)
		}
	}

	return &Schema{validate: v, trans: trans}, nil
}

func registerMessage(tag, text string) validator.RegisterTranslationsFunc {
	return func(t ut.Translator) error {
		return t.Add(tag, text, true)
	}
}

func translateMessage(t ut.Translator, fe validator.FieldError) string {
	msg, err := t.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}
	return msg
}

var (
	defaultSchema     *Schema
	defaultSchemaOnce sync.Once
)

// DefaultSchema returns the shared Schema used by the package level
// validators. Registration only fails on programming errors.
func DefaultSchema() *Schema {
	defaultSchemaOnce.Do(func() {
		s, err := NewSchema()
		if err != nil {
			panic(fmt.Sprintf("form: %v", err))
		}
		defaultSchema = s
	})
	return defaultSchema
}

// check validates one schema struct and maps the failures.
// It never fails: unexpected validator errors are logged and dropped.
func (s *Schema) check(schema any) Errors {
	err := s.validate.Struct(schema)
	if err == nil {
		return Errors{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		logging.Warn("Schema validation failed unexpectedly",
			zap.String("schema", reflect.TypeOf(schema).String()),
			zap.Error(err),
		)
		return Errors{}
	}
	return s.MapErrors(verrs)
}

// MapErrors flattens validator failures into field keyed messages.
// The first failure per field wins.
func (s *Schema) MapErrors(verrs validator.ValidationErrors) Errors {
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		field, ok := schemaFields[fe.StructField()]
		if !ok {
			logging.Debug("Ignoring failure on unmapped field",
				zap.String("field", fe.StructField()),
				zap.String("tag", fe.Tag()),
			)
			continue
		}
		if out.Has(field) {
			continue
		}
		out[field] = fe.Translate(s.trans)
	}
	return out
}

// ValidatePersonalInfo checks the name fields
func (s *Schema) ValidatePersonalInfo(d FormData) Errors {
	return s.check(d.PersonalInfo())
}

// ValidateContactInfo checks address, phone and agreement
func (s *Schema) ValidateContactInfo(d FormData) Errors {
	return s.check(d.ContactInfo())
}

// ValidateForm checks all five rules
func (s *Schema) ValidateForm(d FormData) Errors {
	return s.ValidatePersonalInfo(d).Merge(s.ValidateContactInfo(d))
}

// ValidateStep runs the validator that gates leaving step.
// The confirm step re-checks the contact fields only.
func (s *Schema) ValidateStep(step Step, d FormData) Errors {
	switch step {
	case StepPersonalInfo:
		return s.ValidatePersonalInfo(d)
	case StepContactInfo, StepConfirm:
		return s.ValidateContactInfo(d)
	default:
		return Errors{}
	}
}

// ValidatePersonalInfo checks the name fields with the default schema
func ValidatePersonalInfo(d FormData) Errors {
	return DefaultSchema().ValidatePersonalInfo(d)
}

// ValidateContactInfo checks the contact fields with the default schema
func ValidateContactInfo(d FormData) Errors {
	return DefaultSchema().ValidateContactInfo(d)
}

// ValidateForm checks every field with the default schema
func ValidateForm(d FormData) Errors {
	return DefaultSchema().ValidateForm(d)
}

// ValidateStep runs the step gate with the default schema
func ValidateStep(step Step, d FormData) Errors {
	return DefaultSchema().ValidateStep(step, d)
}

// ValidateField checks a single value the way the step validators would.
// It returns "" when the value is acceptable.
func ValidateField(field Field, value any) string {
	var d FormData
	if err := d.Set(field, value); err != nil {
		return ""
	}
	var errs Errors
	if field == FieldFirstName || field == FieldLastName {
		errs = ValidatePersonalInfo(d)
	} else {
		errs = ValidateContactInfo(d)
	}
	return errs.Get(field)
}
