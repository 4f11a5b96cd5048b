package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Inelegibilidad y campos faltantes NO son errores: se devuelven como valores.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrNoOrganization    = errors.New("el usuario no tiene organización")
	ErrIncompleteProfile = errors.New("perfil de organización incompleto")
	ErrUnknownTask       = errors.New("tarea de onboarding desconocida")
	ErrAlreadySubmitted  = errors.New("la solicitud ya fue enviada")
	ErrSignatureRequired = errors.New("se requiere aceptar la firma digital")
)
