package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func settingsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateSettings checks settings against their bounds. Failures wrap
// domain.ErrInvalidConfig.
func ValidateSettings(settings domain.RenameSettings) error {
	var problems []string

	if err := settingsValidator().Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
		}
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	if settings.PDFBackend != "" && !settings.PDFBackend.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown pdf backend %q", settings.PDFBackend))
	}
	if settings.ExtractTimeout < 0 {
		problems = append(problems, "extract timeout must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
