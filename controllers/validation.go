package controllers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"rental-backend/utils"
)

// RegisterValidators adds our binding validators to gin's validator engine.
// Call once before building the router.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// bookdate: a YYYY-MM-DD calendar date.
	_ = v.RegisterValidation("bookdate", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseISODate(fl.Field().String())
		return err == nil
	})
}
