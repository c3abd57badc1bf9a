package app

import (
	"webinar-portal/internal/domain"
)

// FormStep is the position of the registration wizard.
type FormStep string

const (
	FormStep1     FormStep = "step1"
	FormStep2     FormStep = "step2"
	FormSubmitted FormStep = "submitted"
)

// RegistrationForm is the two-step registration wizard.
// Values survive every transition; only Reset clears them.
type RegistrationForm struct {
	step   FormStep
	values domain.Profile
	errors domain.FieldErrors
}

func NewRegistrationForm() *RegistrationForm {
	return &RegistrationForm{step: FormStep1, errors: domain.FieldErrors{}}
}

func (f *RegistrationForm) Step() FormStep {
	return f.step
}

// Values returns the entered values as typed (untrimmed).
func (f *RegistrationForm) Values() domain.Profile {
	return f.values
}

// Errors returns a copy of the current field errors.
func (f *RegistrationForm) Errors() domain.FieldErrors {
	out := make(domain.FieldErrors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Set stores a field value and clears that field's error only. Phone input is
// normalized to at most 10 digits before it is stored.
func (f *RegistrationForm) Set(field domain.Field, value string) error {
	if f.step == FormSubmitted {
		return domain.ErrInvalidTransition
	}
	if field == domain.FieldPhone {
		value = domain.NormalizePhone(value)
	}
	if !f.values.Set(field, value) {
		return domain.ErrUnknownField
	}
	delete(f.errors, field)
	return nil
}

// Next moves Step1 to Step2 when every Step1 field is valid. Otherwise the
// invalid fields get an error each and the form stays on Step1.
func (f *RegistrationForm) Next() (domain.FieldErrors, error) {
	if f.step != FormStep1 {
		return nil, domain.ErrInvalidTransition
	}
	if errs := f.check(domain.Step1Fields); errs != nil {
		return errs, nil
	}
	f.step = FormStep2
	return nil, nil
}

// Back returns from Step2 to Step1 unconditionally.
func (f *RegistrationForm) Back() error {
	if f.step != FormStep2 {
		return domain.ErrInvalidTransition
	}
	f.step = FormStep1
	return nil
}

// Submit validates Step2 and, on success, moves to Submitted and returns the trimmed profile.
func (f *RegistrationForm) Submit() (domain.Profile, domain.FieldErrors, error) {
	if f.step != FormStep2 {
		return domain.Profile{}, nil, domain.ErrInvalidTransition
	}
	if errs := f.check(domain.Step2Fields); errs != nil {
		return domain.Profile{}, errs, nil
	}
	f.step = FormSubmitted
	return f.values.Trimmed(), nil, nil
}

// Reopen returns a submitted form to Step2 so a failed registration can be retried without retyping.
func (f *RegistrationForm) Reopen() error {
	if f.step != FormSubmitted {
		return domain.ErrInvalidTransition
	}
	f.step = FormStep2
	return nil
}

// Reset empties the form and returns it to Step1.
func (f *RegistrationForm) Reset() {
	f.step = FormStep1
	f.values = domain.Profile{}
	f.errors = domain.FieldErrors{}
}

func (f *RegistrationForm) check(fields []domain.Field) domain.FieldErrors {
	errs := domain.ValidateFields(f.values, fields)
	for field, msg := range errs {
		f.errors[field] = msg
	}
	return errs
}
