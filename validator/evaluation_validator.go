package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validations
	validate.RegisterValidation("flag_name", validateFlagName)
}

// EvaluationRequest is the input of an evaluation call. A nil Params map means
// "no filter"; an empty map is a filter with no conditions.
type EvaluationRequest struct {
	Flag   string            `json:"flag" validate:"required,flag_name,max=255"`
	Params map[string]string `json:"params" validate:"omitempty,max=64,dive,keys,required,max=255,endkeys,max=1024"`
}

// ValidationError represents a validation error with field details
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	var messages []string
	for _, err := range ve.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, ", ")
}

// ValidateEvaluationRequest validates an evaluation request
func ValidateEvaluationRequest(req EvaluationRequest) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// validateFlagName allows letters, digits and the separators _ - . :
func validateFlagName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}

	for _, char := range name {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '_' || char == '-' || char == '.' || char == ':') {
			return false
		}
	}

	return true
}

// formatValidationErrors formats validator errors into a custom error format
func formatValidationErrors(err error) error {
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var validationErrors []ValidationError
	for _, err := range fieldErrors {
		var message string

		switch err.Tag() {
		case "required":
			message = "This field is required"
		case "flag_name":
			message = "Flag name must contain only letters, digits, underscores, hyphens, dots and colons"
		case "max":
			message = fmt.Sprintf("Must be at most %s long", err.Param())
		default:
			message = "Invalid value"
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return ValidationErrors{Errors: validationErrors}
}
