package http

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/eridehero/eridehero/internal/domain/tracker"
)

// RegisterValidators installs the tracker enum validations on gin's
// binding validator. Call once at startup.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("trackertype", func(fl validator.FieldLevel) bool {
		return tracker.TrackerType(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("geo", func(fl validator.FieldLevel) bool {
		return tracker.Geo(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return tracker.Currency(fl.Field().String()).Valid()
	})
}
