package httpx

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeValid decodes the JSON body into target and runs struct validation.
// Failures are returned wrapped in ErrValidation so RespondError maps
// them to 400.
func DecodeValid(r *http.Request, target any) error {
	if err := DecodeJSON(r, target); err != nil {
		return fmt.Errorf("%w: corpo da requisição malformado", ErrValidation)
	}
	if err := validate.Struct(target); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("%w: campo '%s' inválido", ErrValidation, errs[0].Field())
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
