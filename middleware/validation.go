package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"fooddelight/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SetupValidator teaches gin's validator about decimals and payment methods and
// makes error messages use JSON field names.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("binding validator is not go-playground/validator")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Decimals validate as float64 so gt/gte/lte work on them; a NULL
	// decimal validates as nil and satisfies omitempty.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		switch d := field.Interface().(type) {
		case decimal.Decimal:
			return d.InexactFloat64()
		case decimal.NullDecimal:
			if !d.Valid {
				return nil
			}
			return d.Decimal.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{}, decimal.NullDecimal{})
	return registerTags(v, customTags)
}

var customTags = map[string]validator.Func{
	"payment_method": func(fl validator.FieldLevel) bool {
		return models.PaymentMethod(fl.Field().String()).Valid()
	},
	"order_status": func(fl validator.FieldLevel) bool {
		return models.OrderStatus(fl.Field().String()).Valid()
	},
	"payment_status": func(fl validator.FieldLevel) bool {
		return models.PaymentStatus(fl.Field().String()).Valid()
	},
}

func registerTags(v *validator.Validate, tags map[string]validator.Func) error {
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q validation: %w", tag, err)
		}
	}
	return nil
}
