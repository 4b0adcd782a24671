package validation

import (
	"fmt"
	"math"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/optbazar/storefront-api/internal/catalog"
	"github.com/optbazar/storefront-api/internal/orders"
)

const maxImageURLLen = 2048

type Options struct {
	// StrictTotals rejects orders whose totalAmount differs from the item sum.
	StrictTotals bool
}

// New returns a configured validator with the custom rules registered.
func New(opts Options) *validatorv10.Validate {
	v := validatorv10.New(validatorv10.WithRequiredStructEnabled())

	// oneof splits on spaces, which several status names contain
	_ = v.RegisterValidation("order_status", func(fl validatorv10.FieldLevel) bool {
		_, ok := orders.ParseStatus(fl.Field().String())
		return ok
	})

	_ = v.RegisterValidation("product_images", func(fl validatorv10.FieldLevel) bool {
		images, ok := fl.Field().Interface().([]string)
		if !ok || len(images) > catalog.MaxImages {
			return false
		}
		for _, img := range images {
			if len(img) > maxImageURLLen {
				return false
			}
		}
		return true
	})

	if opts.StrictTotals {
		v.RegisterStructValidation(createOrderStructValidation, CreateOrderRequest{})
	}
	return v
}

// createOrderStructValidation verifies the aggregated total of items equals TotalAmount (within cents)
func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)

	var sum float64
	for _, it := range req.Items {
		sum += it.Quantity.Float() * it.Price.Float()
	}

	sumCents := int64(math.Round(sum * 100))
	amountCents := int64(math.Round(req.TotalAmount.Float() * 100))
	if sumCents != amountCents {
		sl.ReportError(req.TotalAmount, "totalAmount", "TotalAmount", "amount_match_items",
			fmt.Sprintf("items sum %.2f != total %.2f", sum, req.TotalAmount.Float()))
	}
}
