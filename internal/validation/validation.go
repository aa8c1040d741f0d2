package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"orders-ms/internal/model"

	"github.com/go-playground/validator/v10"
)

// Validator checks inbound DTOs before they reach the order workflow.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the order-specific rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return model.OrderStatus(fl.Field().String()).Valid()
	})

	return &Validator{validate: v}
}

// Struct validates s and returns a validation DomainError describing the first failure.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return model.NewValidationError(err.Error())
	}

	return model.NewValidationError(describe(validationErrs[0]))
}

// fieldPath turns "OrderQuery.Pagination.take" into "take" and
// "CreateOrderRequest.items[0].quantity" into "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	var parts []string
	for _, part := range strings.Split(fe.Namespace(), ".") {
		if part == "" || unicode.IsUpper([]rune(part)[0]) {
			continue
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return fe.Field()
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	field := fieldPath(fe)

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be a positive number", field)
	case "gte":
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a UUID", field)
	case "orderstatus":
		return fmt.Sprintf("%s must be one of the following: %s", field, model.StatusList())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
