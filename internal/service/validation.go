package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Payload limits for submissions.
const (
	ReviewCommentMaxLength = 1500
	QuoteMessageMaxLength  = 1000
)

// ReviewInput is the caller-supplied part of a review. Rating is a pointer so a
// missing value can be told apart from zero.
type ReviewInput struct {
	Rating  *int    `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1500"`
}

// QuoteInput is the caller-supplied part of a quote request.
type QuoteInput struct {
	UserName  string  `json:"userName" validate:"required,min=2"`
	UserEmail string  `json:"userEmail" validate:"required,email"`
	UserPhone *string `json:"userPhone,omitempty"`
	Message   *string `json:"message,omitempty" validate:"omitempty,max=1000"`
}

// Validator turns validator/v10 failures into ValidationErrors keyed by JSON field name.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator that reports fields by their json tag.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns a *ValidationError listing every violation, or nil.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate payload: %w", err)
	}
	out := &ValidationError{Message: "validation failed"}
	for _, fe := range verrs {
		out.Violations = append(out.Violations, FieldViolation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return out
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// ParseProductID coerces a raw path segment into a product id.
// Leading and trailing blanks are tolerated; anything that is not a positive integer is a ValidationError.
func ParseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidID(raw)
	}
	return id, nil
}

func validateID(id int64) error {
	if id <= 0 {
		return invalidID(strconv.FormatInt(id, 10))
	}
	return nil
}
