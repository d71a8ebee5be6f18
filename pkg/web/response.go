// Package web defines common components for a web application.
package web

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into json frinedly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// Response holds the common response type for all APIs.
type Response struct {
	AccessToken           string    `json:"access_token,omitempty"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at,omitempty"`
	RefreshToken          string    `json:"refresh_token,omitempty"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty"`
	Data                  any       `json:"data,omitempty"`
	Error                 string    `json:"error,omitempty"`
}

// GetErrorMsg returns a human readable message for a failed validation tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "min":
		return " field must be greater or equal to " + fe.Param()
	case "max":
		return " field must be less than or equal to " + fe.Param()
	case "email":
		return " field must be a valid email"
	case "alphanum":
		return " field must contain only alphanumeric characters"
	case "accounttype":
		return " field must be one of CURRENT or SAVINGS"
	case "transactiontype":
		return " field must be one of INCOME or EXPENSE"
	case "interval":
		return " field must be one of DAILY, WEEKLY, MONTHLY or YEARLY"
	case "category":
		return " field must be a supported category"
	default:
		return " field is invalid"
	}
}
