package app

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// The checks below mirror what the browser enforces natively on the
// original inputs (required, type=email, type=date, min=1); nothing more.

type loginFields struct {
	Email    string `label:"email" validate:"required,email"`
	Password string `label:"password" validate:"required"`
}

type registerFields struct {
	Name     string `label:"full name" validate:"required"`
	Email    string `label:"email" validate:"required,email"`
	Password string `label:"password" validate:"required"`
}

type bookingFields struct {
	CheckIn  string `label:"check-in" validate:"required,datetime=2006-01-02"`
	CheckOut string `label:"check-out" validate:"required,datetime=2006-01-02"`
	Guests   int    `label:"guests" validate:"min=1"`
}

type contactFields struct {
	Name    string `label:"name" validate:"required"`
	Email   string `label:"email" validate:"required,email"`
	Message string `label:"message" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string { return f.Tag.Get("label") })
	return v
}

// fieldMessage turns the first validation failure into the text the
// browser would show for that field.
func fieldMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check the form."
	}
	fe := verrs[0]
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return "Please fill out the " + name + " field."
	case "email":
		return "Please enter a valid email address."
	case "datetime":
		return "Please enter a valid " + name + " date."
	case "min":
		return "Value must be greater than or equal to " + fe.Param() + "."
	}
	return "Please check the " + name + " field."
}
