package util

import (
	"sync"

	"robotapp-backend/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("variant", ValidateVariant)
			_ = v.RegisterValidation("payment_method", ValidatePaymentMethod)
		}
	})
}

// ValidateVariant accepts Emo, EmoPro and ProPlus
func ValidateVariant(fl validator.FieldLevel) bool {
	return model.ValidVariant(fl.Field().String())
}

// ValidatePaymentMethod accepts the supported payment methods
func ValidatePaymentMethod(fl validator.FieldLevel) bool {
	return model.ValidPaymentMethod(fl.Field().String())
}
