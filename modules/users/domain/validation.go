package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// namePattern accepts ASCII letters, accented Latin letters and whitespace,
// including Unicode space separators such as U+00A0.
var namePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\p{Z}\s]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// CreateUserInput is an untrusted creation payload. Pointers distinguish
// absent fields from zero values.
type CreateUserInput struct {
	Name     *string `json:"name" validate:"required,min=2,max=80,personname"`
	Email    *string `json:"email" validate:"required,email"`
	Age      *int    `json:"age" validate:"required,gte=0"`
	IsActive *bool   `json:"is_active"`

	// isActiveNull records an explicit "is_active": null, which is rejected
	// rather than defaulted.
	isActiveNull bool
}

func (in *CreateUserInput) UnmarshalJSON(data []byte) error {
	type plain CreateUserInput
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var raw struct {
		IsActive json.RawMessage `json:"is_active"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*in = CreateUserInput(decoded)
	in.isActiveNull = string(raw.IsActive) == "null"
	return nil
}

// UpdateUserInput is an untrusted update payload. A nil field was either
// omitted or explicitly null; both mean "leave unchanged".
type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitnil,min=2,max=80,personname"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Age      *int    `json:"age" validate:"omitnil,gte=0"`
	IsActive *bool   `json:"is_active"`
}

// ValidateCreate checks a creation payload and returns the normalized record.
func ValidateCreate(in CreateUserInput) (UserDraft, error) {
	in.Email = trimmed(in.Email)

	var violations []FieldViolation
	if err := validate.Struct(in); err != nil {
		var verr *ValidationError
		if !errors.As(toValidationError(err), &verr) {
			return UserDraft{}, err
		}
		violations = verr.Violations
	}
	if in.isActiveNull {
		violations = append(violations, FieldViolation{Field: FieldIsActive, Reason: "must be a boolean"})
	}
	if len(violations) > 0 {
		return UserDraft{}, &ValidationError{Violations: violations}
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	return UserDraft{
		Name:     *in.Name,
		Email:    normalizeEmail(*in.Email),
		Age:      *in.Age,
		IsActive: isActive,
	}, nil
}

// ValidateUpdate checks an update payload and returns the sparse set of
// fields to change. It returns ErrEmptyUpdate when nothing was supplied.
func ValidateUpdate(in UpdateUserInput) (UserPatch, error) {
	in.Email = trimmed(in.Email)
	if err := validate.Struct(in); err != nil {
		return UserPatch{}, toValidationError(err)
	}

	patch := UserPatch{
		Name:     in.Name,
		Age:      in.Age,
		IsActive: in.IsActive,
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		patch.Email = &email
	}
	if patch.IsEmpty() {
		return UserPatch{}, ErrEmptyUpdate
	}
	return patch, nil
}

// ValidateListParams checks paging and age bounds before BuildCriteria runs.
// A page whose offset does not fit in an int is rejected.
func ValidateListParams(p ListParams) error {
	if err := validate.Struct(p); err != nil {
		return toValidationError(err)
	}
	if pageTooLarge(p.Page, p.Limit) {
		return &ValidationError{Violations: []FieldViolation{
			{Field: "page", Reason: "is too large for the page size"},
		}}
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// normalizeEmail lower-cases the domain part. The local part is kept as
// supplied since mailbox names may be case-sensitive.
func normalizeEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	violations := make([]FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, FieldViolation{
			Field:  fe.Field(),
			Reason: reason(fe),
		})
	}
	return &ValidationError{Violations: violations}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "personname":
		return "must contain only letters and spaces"
	case "email":
		return "must be a valid email address"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "failed " + fe.Tag() + " constraint"
	}
}
