package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type validationResponse struct {
	Errors []string `json:"errors"`
}

// decodeValid decodes the JSON body into dst and checks its validate tags.
// On failure it writes the 422 response itself and returns false.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: []string{"malformed request body"}})
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrors validator.ValidationErrors
		messages := []string{}
		if errors.As(err, &fieldErrors) {
			for _, fe := range fieldErrors {
				messages = append(messages, fmt.Sprintf("%s failed on the %s rule", fe.Field(), fe.Tag()))
			}
		} else {
			messages = append(messages, "invalid request")
		}
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: messages})
		return false
	}

	return true
}
