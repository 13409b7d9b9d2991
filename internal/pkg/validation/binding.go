package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
)

// RegisterRules installs the custom tags used in request DTOs:
// `weekday` for day tags, `accesscode` for student codes and `taxid` for CPF/CNPJ numbers
func RegisterRules(v *validator.Validate) error {
	// report json field names in validation errors
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return models.DayOfWeek(fl.Field().String()).Valid()
	}); err != nil {
		return fmt.Errorf("failed to register weekday rule: %w", err)
	}

	if err := v.RegisterValidation("accesscode", func(fl validator.FieldLevel) bool {
		return IsAccessCode(fl.Field().String(), AccessCodeLength)
	}); err != nil {
		return fmt.Errorf("failed to register accesscode rule: %w", err)
	}

	if err := v.RegisterValidation("taxid", func(fl validator.FieldLevel) bool {
		return IsValidTaxID(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register taxid rule: %w", err)
	}

	return nil
}
