package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mid-portal-api/internal/application/dto"
)

// organizationChecker es el contrato mínimo que necesita el middleware.
// Lo implementa *usecase.OrganizationUseCase; la interfaz evita el import circular.
type organizationChecker interface {
	HasOrganization(ctx context.Context, actor dto.Actor) (bool, error)
}

// RequireOrganization corta las rutas MID si el usuario aún no tiene organización.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 Forbidden → el usuario no tiene organización.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireOrganization(checker organizationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}
		ok, err := checker.HasOrganization(c.UserContext(), actor)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ORGANIZATION_CHECK_FAILED",
				Message: "no se pudo verificar la organización, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "NO_ORGANIZATION",
				Message: "cree primero la organización",
			})
		}
		return c.Next()
	}
}
