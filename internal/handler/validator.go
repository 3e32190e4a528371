package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/TaskArena_Go/internal/domain"
)

// Validator checks request structs against their `validate` tags. Field
// names in reports follow the `json` tag so clients see their own keys.
type Validator struct {
	validate *validator.Validate
}

var sharedValidator = sync.OnceValue(newValidator)

// GetValidator returns the process-wide validator, building it on first use
func GetValidator() *Validator {
	return sharedValidator()
}

func newValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("class", validateClass)
	_ = v.RegisterValidation("slot", validateSlot)
	return &Validator{validate: v}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(f.Name)
	}
	return name
}

// ValidateStruct validates s using its tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError turns validator output into field → message pairs
// without exposing Go type names
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": ErrMsgInvalidRequestFormat}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "class":
		return "Unknown class"
	case "slot":
		return "Unknown equipment slot"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "excludesall":
		return "Contains invalid characters"
	case "nefield":
		return fmt.Sprintf("Must differ from %s", strings.ToLower(fe.Param()))
	}
	return "Invalid value"
}

// empty values pass; pair with `required` where the field is mandatory
func validateClass(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	_, ok := domain.ParseClass(raw)
	return ok
}

func validateSlot(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	return raw == "" || domain.Slot(strings.ToLower(raw)).IsValid()
}
