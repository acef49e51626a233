package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/apperr"
)

// validateStruct runs validator tags over a request DTO and converts failures
// into field-by-field details.
func validateStruct(v *validator.Validate, s any) *apperr.Error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("validation failed")
	}
	details := make([]apperr.Detail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperr.Detail{
			Key:     fieldKey(fe),
			Message: fieldMessage(fe),
		})
	}
	return apperr.Validation("validation failed", details...)
}

func fieldKey(fe validator.FieldError) string {
	f := fe.Field()
	return strings.ToLower(f[:1]) + f[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fieldKey(fe) + " is required"
	case "email":
		return fieldKey(fe) + " must be a valid email address"
	case "min":
		return fieldKey(fe) + " is too short"
	case "max":
		return fieldKey(fe) + " is too long"
	case "oneof":
		return fieldKey(fe) + " must be one of: " + fe.Param()
	case "uuid4":
		return fieldKey(fe) + " must be a valid id"
	default:
		return fieldKey(fe) + " is invalid"
	}
}
