package attendance

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/attendance/core"
)

var (
	statusTag  = "status"
	statusText = "{0} must be one of: " + strings.Join(AllStatuses, ", ")
)

// InitValidators registers the attendance validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

// statusValidation checks that the provided status is one of AllStatuses.
func statusValidation(fl validator.FieldLevel) bool {
	return IsValidStatus(fl.Field().String())
}
