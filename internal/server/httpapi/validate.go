package httpapi

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their JSON names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateRequest checks struct tags and returns an error matching
// common.ErrValidation with one message per failing field.
func validateRequest(req any) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.Validationf("invalid request")
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, e.Field()+" "+formatValidationError(e))
	}
	return common.Validationf("%s", strings.Join(messages, "; "))
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
