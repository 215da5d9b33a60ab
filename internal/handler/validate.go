package handler

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = validator.New()

// ClickRequest is the body of a click. An empty NodeID is a canvas click.
type ClickRequest struct {
	NodeID string `json:"node_id" validate:"omitempty,max=512"`
}

// OpenRequest carries the optional full page URL of a new view
type OpenRequest struct {
	Page string `json:"page" validate:"omitempty,uri,max=4096"`
}

func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Report the first failure only
	for _, e := range validationErrs {
		switch e.Tag() {
		case "max":
			return fmt.Errorf("%s: must not exceed %s characters", e.Field(), e.Param())
		case "uri":
			return fmt.Errorf("%s: must be a URI", e.Field())
		default:
			return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
		}
	}
	return err
}
