package response

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// fieldMessage renders a binding failure the way API clients see field errors elsewhere.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "oneof", "post_status":
		return fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	case "gt", "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
