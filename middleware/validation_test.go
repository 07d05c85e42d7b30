package middleware

import (
	"testing"

	"fooddelight/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pricedInput struct {
	Price  decimal.Decimal      `json:"price" binding:"required,gt=0"`
	Rating decimal.NullDecimal  `json:"rating" binding:"omitempty,gte=0,lte=5"`
	Method models.PaymentMethod `json:"method" binding:"omitempty,payment_method"`
	Status models.OrderStatus   `json:"status" binding:"omitempty,order_status"`
	Paid   models.PaymentStatus `json:"paid" binding:"omitempty,payment_status"`
}

func TestRegisterTagsReportsFailure(t *testing.T) {
	err := registerTags(validator.New(), map[string]validator.Func{
		"": func(validator.FieldLevel) bool { return true },
	})
	assert.Error(t, err)
	assert.NoError(t, registerTags(validator.New(), customTags))
}

func TestSetupValidator(t *testing.T) {
	require.NoError(t, SetupValidator())
	d := decimal.RequireFromString
	valid := pricedInput{Price: d("9.99")}

	tests := []struct {
		name   string
		modify func(*pricedInput)
		field  string
	}{
		{"valid", func(*pricedInput) {}, ""},
		{"rating in range", func(p *pricedInput) { p.Rating = decimal.NewNullDecimal(d("4.5")) }, ""},
		{"known values", func(p *pricedInput) {
			p.Method, p.Status, p.Paid = models.MethodUPI, models.StatusOutForDelivery, models.PaymentPaid
		}, ""},
		{"zero price", func(p *pricedInput) { p.Price = decimal.Zero }, "price"},
		{"negative price", func(p *pricedInput) { p.Price = d("-1") }, "price"},
		{"rating above five", func(p *pricedInput) { p.Rating = decimal.NewNullDecimal(d("5.01")) }, "rating"},
		{"negative rating", func(p *pricedInput) { p.Rating = decimal.NewNullDecimal(d("-0.1")) }, "rating"},
		{"unknown method", func(p *pricedInput) { p.Method = "Cheque" }, "method"},
		{"unknown status", func(p *pricedInput) { p.Status = "Lost" }, "status"},
		{"unknown payment status", func(p *pricedInput) { p.Paid = "Refunded" }, "paid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.modify(&in)
			err := binding.Validator.ValidateStruct(&in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}
