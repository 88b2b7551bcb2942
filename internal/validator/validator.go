package validator

import (
	"reflect"
	"strings"
	"sync"
)

// Validator is the entry point services hold on to.
type Validator struct {
	business *BusinessValidator
}

var (
	defaultValidator *Validator
	once             sync.Once
)

// New returns the process-wide validator. Rule registration happens once.
func New() *Validator {
	once.Do(func() {
		defaultValidator = &Validator{business: NewBusinessValidator()}
	})
	return defaultValidator
}

// Validate runs the struct tags and returns ValidationErrors, or nil.
func (v *Validator) Validate(s interface{}) error {
	if errs := v.business.Validate(s); len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}
