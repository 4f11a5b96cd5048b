package dto

// Actor identidad del usuario autenticado, tal como la entrega el proveedor de identidad.
type Actor struct {
	UserID         string
	OrganizationID string // opcional: si falta se busca la organización del usuario
	Email          string
	EmailVerified  bool
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
