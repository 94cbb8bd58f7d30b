package handler

import "github.com/IndraniBorra/InvoiceManagementStore/internal/interfaces/http/dto"

// APIResponse is dto.Response with a concrete Data type, used only by the
// swag annotations so the generated schema shows the payload of each endpoint.
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}
