package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateStruct runs the struct tags and folds every failure into one ErrValidation.
func validateStruct(v interface{}) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid %s", field, fe.Tag())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}

// LandmarkForm is what a user submits to create or edit a landmark.
type LandmarkForm struct {
	Name        string   `validate:"required,min=5,max=80"`
	Type        string   `validate:"required,min=5,max=30"`
	Size        string   `validate:"required,oneof=small large"`
	Place       string   `validate:"required,min=5,max=20"`
	Address     string   `validate:"required"`
	Description string   `validate:"required"`
	Latitude    *float64 `validate:"omitempty,latitude"`
	Longitude   *float64 `validate:"omitempty,longitude"`
}

// Normalize trims surrounding whitespace of the text fields.
func (f *LandmarkForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.TrimSpace(f.Type)
	f.Size = strings.ToLower(strings.TrimSpace(f.Size))
	f.Place = strings.TrimSpace(f.Place)
	f.Address = strings.TrimSpace(f.Address)
	f.Description = strings.TrimSpace(f.Description)
}

// Validate checks the form field rules.
func (f LandmarkForm) Validate() error {
	return validateStruct(f)
}

// ManualGeolocation returns the coordinates typed into the form, if both are present.
func (f LandmarkForm) ManualGeolocation() (Geolocation, bool) {
	if f.Latitude == nil || f.Longitude == nil {
		return Geolocation{}, false
	}
	return Geolocation{Lat: *f.Latitude, Lng: *f.Longitude}, true
}

// SignUpForm is the e-mail/password registration payload.
type SignUpForm struct {
	Username string `validate:"required,min=3,max=30"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

func (f SignUpForm) Validate() error {
	return validateStruct(f)
}

// ProfileForm is the editable part of a user profile.
type ProfileForm struct {
	Username string `validate:"required,min=3,max=30"`
}

func (f ProfileForm) Validate() error {
	return validateStruct(f)
}

// PasswordForm carries a new password for a reset.
type PasswordForm struct {
	Password string `validate:"required,min=6,max=72"`
}

func (f PasswordForm) Validate() error {
	return validateStruct(f)
}
