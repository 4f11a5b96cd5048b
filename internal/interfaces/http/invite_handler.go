package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mid-portal-api/internal/application/dto"
	"github.com/jhoicas/mid-portal-api/internal/application/usecase"
)

// InviteHandler invitaciones de compañeros.
type InviteHandler struct {
	uc *usecase.InviteUseCase
}

// NewInviteHandler construye el handler.
func NewInviteHandler(uc *usecase.InviteUseCase) *InviteHandler {
	return &InviteHandler{uc: uc}
}

// Create godoc
// @Summary      Invitar a un compañero
// @Tags         invites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateInviteRequest  true  "Correo del invitado"
// @Success      201   {object}  dto.InviteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invites [post]
func (h *InviteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInviteRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Invitaciones de la organización
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.InviteListResponse
// @Router       /api/invites [get]
func (h *InviteHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
