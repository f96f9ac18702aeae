package handler

import "github.com/gbpdash/backend/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// OAuthCallbackData is the JSON form of a successful consent callback
// @Description Accounts linked by the Google consent callback
type OAuthCallbackData struct {
	Connected  bool              `json:"connected" example:"true"`
	Accounts   int               `json:"accounts" example:"2"`
	ReturnPath string            `json:"return_path" example:"/settings/integrations"`
	SyncErrors map[string]string `json:"sync_errors,omitempty"`
}
