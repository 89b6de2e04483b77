package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/cloudmesa/gcpadc/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config == nil {
		return errors.New(errors.ErrConfigInvalid, "configuration is nil")
	}

	// Validate struct tags
	if err := validate.Struct(config); err != nil {
		return formatValidationError(err)
	}

	return validateCredentials(&config.Credentials)
}

// validateCredentials validates credential discovery configuration
func validateCredentials(config *CredentialsConfig) error {
	for _, scope := range config.Scopes {
		if scope == "" {
			return errors.New(
				errors.ErrConfigInvalid,
				"scopes must not contain empty entries",
			).WithField("scopes", config.Scopes)
		}
	}

	return nil
}

// formatValidationError formats validator errors into application errors
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(
			errors.ErrValidationFailed,
			err,
			"validation failed",
		)
	}

	// Get the first validation error for simplicity
	if len(validationErrs) > 0 {
		fieldErr := validationErrs[0]
		return errors.New(
			errors.ErrValidationFailed,
			fmt.Sprintf("validation failed for field '%s'", fieldErr.Field()),
		).WithFields(map[string]interface{}{
			"field": fieldErr.Field(),
			"tag":   fieldErr.Tag(),
			"value": fieldErr.Value(),
		})
	}

	return errors.New(errors.ErrValidationFailed, "validation failed")
}
