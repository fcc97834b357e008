package controller

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var slotTimeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Slot boundaries travel as HH:MM strings; the stock rules have no format
// for them.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("slottime", func(fl validator.FieldLevel) bool {
			return slotTimeRe.MatchString(fl.Field().String())
		})
	}
}
