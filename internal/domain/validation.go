package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names a profile field. Values match the JSON names used on the wire.
type Field string

const (
	FieldFullName        Field = "fullName"
	FieldGender          Field = "gender"
	FieldEmail           Field = "email"
	FieldPhone           Field = "phone"
	FieldSchoolName      Field = "schoolName"
	FieldCity            Field = "city"
	FieldGradesHandled   Field = "gradesHandled"
	FieldSubjectsHandled Field = "subjectsHandled"
)

// PhoneDigits is the exact length of a normalized phone number.
const PhoneDigits = 10

var (
	// Step1Fields are collected on the first registration step (profile and contact).
	Step1Fields = []Field{FieldFullName, FieldGender, FieldEmail, FieldPhone}
	// Step2Fields are collected on the second registration step (school and academics).
	Step2Fields = []Field{FieldSchoolName, FieldCity, FieldGradesHandled, FieldSubjectsHandled}

	Genders        = []string{"Male", "Female", "Others"}
	GradeOptions   = []string{"1-5", "6-8", "9-10", "11-12", "Multiple"}
	SubjectOptions = []string{"Languages", "Mathematics", "Science", "Social Science", "Computer Science", "Other"}
)

// AllFields lists every profile field in display order.
func AllFields() []Field {
	fields := make([]Field, 0, len(Step1Fields)+len(Step2Fields))
	fields = append(fields, Step1Fields...)
	return append(fields, Step2Fields...)
}

// ParseField maps a wire name to a Field.
func ParseField(name string) (Field, bool) {
	for _, f := range AllFields() {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// Value returns the raw value of field f.
func (p Profile) Value(f Field) string {
	switch f {
	case FieldFullName:
		return p.FullName
	case FieldGender:
		return p.Gender
	case FieldEmail:
		return p.Email
	case FieldPhone:
		return p.Phone
	case FieldSchoolName:
		return p.SchoolName
	case FieldCity:
		return p.City
	case FieldGradesHandled:
		return p.GradesHandled
	case FieldSubjectsHandled:
		return p.SubjectsHandled
	}
	return ""
}

// Set stores v in field f, reporting false for an unknown field.
func (p *Profile) Set(f Field, v string) bool {
	switch f {
	case FieldFullName:
		p.FullName = v
	case FieldGender:
		p.Gender = v
	case FieldEmail:
		p.Email = v
	case FieldPhone:
		p.Phone = v
	case FieldSchoolName:
		p.SchoolName = v
	case FieldCity:
		p.City = v
	case FieldGradesHandled:
		p.GradesHandled = v
	case FieldSubjectsHandled:
		p.SubjectsHandled = v
	default:
		return false
	}
	return true
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (p Profile) Trimmed() Profile {
	out := p
	for _, f := range AllFields() {
		out.Set(f, strings.TrimSpace(p.Value(f)))
	}
	return out
}

// NormalizePhone keeps the digits of raw, truncated to PhoneDigits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if b.Len() == PhoneDigits {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FieldErrors maps each invalid field to a user-facing message.
type FieldErrors map[Field]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[Field(f)]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Unwrap() error {
	return ErrValidation
}

type fieldRule struct {
	tag      string
	messages map[string]string
}

var fieldRules = map[Field]fieldRule{
	FieldFullName: {
		tag: "required,min=2",
		messages: map[string]string{
			"required": "Full name is required",
			"min":      "Full name must be at least 2 characters",
		},
	},
	FieldGender: {
		tag: "required,gender",
		messages: map[string]string{
			"required": "Please select your gender",
			"gender":   "Please select a valid gender",
		},
	},
	FieldEmail: {
		tag: "required,email",
		messages: map[string]string{
			"required": "Email is required",
			"email":    "Please enter a valid email address",
		},
	},
	FieldPhone: {
		tag: "required,number,len=10,startsnotwith=0",
		messages: map[string]string{
			"required":      "Phone number is required",
			"number":        "Phone number must contain digits only",
			"len":           "Phone number must be exactly 10 digits",
			"startsnotwith": "Phone number cannot start with 0",
		},
	},
	FieldSchoolName: {
		tag: "required,min=3",
		messages: map[string]string{
			"required": "School name is required",
			"min":      "School name must be at least 3 characters",
		},
	},
	FieldCity: {
		tag: "required,min=3",
		messages: map[string]string{
			"required": "City is required",
			"min":      "City must be at least 3 characters",
		},
	},
	FieldGradesHandled: {
		tag: "required,grade",
		messages: map[string]string{
			"required": "Please select the grades you handle",
			"grade":    "Please select a valid grade range",
		},
	},
	FieldSubjectsHandled: {
		tag: "required,subject",
		messages: map[string]string{
			"required": "Please select the subjects you handle",
			"subject":  "Please select a valid subject",
		},
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegisterOneOf(v, "gender", Genders)
	mustRegisterOneOf(v, "grade", GradeOptions)
	mustRegisterOneOf(v, "subject", SubjectOptions)
	return v
}

func mustRegisterOneOf(v *validator.Validate, tag string, options []string) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, opt := range options {
			if value == opt {
				return true
			}
		}
		return false
	})
	if err != nil {
		panic(err)
	}
}

// ValidateField checks a single field value and returns the error message, or "" when valid.
// The value is trimmed before checking.
func ValidateField(f Field, value string) string {
	rule, ok := fieldRules[f]
	if !ok {
		return "Unknown field"
	}
	err := validate.Var(strings.TrimSpace(value), rule.tag)
	if err == nil {
		return ""
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Invalid value"
	}
	if msg, ok := rule.messages[verrs[0].Tag()]; ok {
		return msg
	}
	return "Invalid value"
}

// ValidateFields checks the named fields of p. It returns nil when all are valid.
func ValidateFields(p Profile, fields []Field) FieldErrors {
	errs := FieldErrors{}
	for _, f := range fields {
		if msg := ValidateField(f, p.Value(f)); msg != "" {
			errs[f] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateProfile checks every field of p.
func ValidateProfile(p Profile) FieldErrors {
	return ValidateFields(p, AllFields())
}
