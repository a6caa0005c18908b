package segmentation

import (
	"customerSegmentation/domain"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the "category" tag registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	// only fails for an empty tag or a nil func
	_ = RegisterValidations(v)
	return v
}

func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.IsValidCategory(fl.Field().String())
	})
}
