package services

import (
	"reflect"
	"strings"

	"toko/internal/apperror"
	"toko/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal.Decimal is a struct; numeric tags compare its float value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterStructValidation(priceScale, models.ProductInput{}, models.ProductUpdateInput{})
	return v
}

// priceScale rejects prices with more than two decimal places; the column would round them.
func priceScale(sl validator.StructLevel) {
	var price decimal.Decimal
	switch in := sl.Current().Interface().(type) {
	case models.ProductInput:
		price = in.Price
	case models.ProductUpdateInput:
		price = in.Price
	default:
		return
	}
	if !price.Equal(price.Round(2)) {
		sl.ReportError(price, "price", "Price", "price_scale", "2")
	}
}

func validateInput(in any) error {
	if err := validate.Struct(in); err != nil {
		return apperror.FromValidation(err)
	}
	return nil
}
