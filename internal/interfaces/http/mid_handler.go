package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mid-portal-api/internal/application/dto"
	"github.com/jhoicas/mid-portal-api/internal/application/mid"
)

// MIDHandler elegibilidad y solicitudes MID.
type MIDHandler struct {
	eligibility *mid.EligibilityUseCase
	submissions *mid.SubmissionUseCase
}

// NewMIDHandler construye el handler.
func NewMIDHandler(eligibility *mid.EligibilityUseCase, submissions *mid.SubmissionUseCase) *MIDHandler {
	return &MIDHandler{eligibility: eligibility, submissions: submissions}
}

// Eligibility godoc
// @Summary      Evaluar elegibilidad MID
// @Description  Inelegible no es error: la respuesta trae eligible=false y reasonCode.
// @Tags         mid
// @Produce      json
// @Security     BearerAuth
// @Param        funding_type  query  string  false  "Digitisation | DigitalSecurity (vacío = cualquiera)"
// @Success      200  {object}  dto.EligibilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/mid/eligibility [get]
func (h *MIDHandler) Eligibility(c *fiber.Ctx) error {
	out, err := h.eligibility.Evaluate(c.UserContext(), GetActor(c), c.Query("funding_type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear solicitud MID
// @Description  Copia el perfil actual. Requiere todos los campos obligatorios (422 con missingFields si no).
// @Tags         mid
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateSubmissionRequest  true  "Tipo de financiación y campos a sobrescribir"
// @Success      201   {object}  dto.SubmissionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/mid/submissions [post]
func (h *MIDHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSubmissionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.submissions.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Solicitudes del usuario
// @Tags         mid
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SubmissionListResponse
// @Router       /api/mid/submissions [get]
func (h *MIDHandler) List(c *fiber.Ctx) error {
	out, err := h.submissions.ListByOwner(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud
// @Tags         mid
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.SubmissionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/mid/submissions/{id} [get]
func (h *MIDHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.submissions.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar solicitud
// @Description  Registra los cambios de los campos auditados (dos entradas por campo como máximo). Una solicitud enviada no se edita (409).
// @Tags         mid
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "ID de la solicitud"
// @Param        body  body  dto.UpdateSubmissionRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SubmissionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/mid/submissions/{id} [put]
func (h *MIDHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSubmissionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.submissions.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar solicitud
// @Tags         mid
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/mid/submissions/{id} [delete]
func (h *MIDHandler) Delete(c *fiber.Ctx) error {
	if err := h.submissions.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Submit godoc
// @Summary      Enviar solicitud firmada
// @Description  Re-evalúa la elegibilidad con el perfil actual. Si ya no es elegible responde 200 con submitted=false.
// @Tags         mid
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "ID de la solicitud"
// @Param        body  body  dto.SubmitRequest  true  "Aceptación de la firma digital"
// @Success      200   {object}  dto.SubmitResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/mid/submissions/{id}/submit [post]
func (h *MIDHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.submissions.Submit(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
