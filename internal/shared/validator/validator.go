// Package validator wires go-playground/validator (gin's binding engine) to the API conventions:
// field errors are keyed by their JSON name and domain rules are registered by tag.
package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var tagNameOnce sync.Once

func engine() (*validator.Validate, error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	tagNameOnce.Do(func() {
		v.RegisterTagNameFunc(jsonFieldName)
	})
	return v, nil
}

// Setup makes gin's validator report JSON (or form) field names.
func Setup() error {
	_, err := engine()
	return err
}

// RegisterRule adds a custom binding tag.
func RegisterRule(tag string, fn validator.Func) error {
	v, err := engine()
	if err != nil {
		return err
	}
	if err := v.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register %s: %w", tag, err)
	}
	return nil
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
