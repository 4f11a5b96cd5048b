package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/mid-portal-api/internal/application/onboarding"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
)

const streamHeartbeat = 25 * time.Second

// OnboardingHandler progreso de onboarding.
type OnboardingHandler struct {
	uc   *onboarding.UseCase
	feed repository.OnboardingFeed // nil = sin stream en vivo
}

// NewOnboardingHandler construye el handler. feed puede ser nil.
func NewOnboardingHandler(uc *onboarding.UseCase, feed repository.OnboardingFeed) *OnboardingHandler {
	return &OnboardingHandler{uc: uc, feed: feed}
}

// Get godoc
// @Summary      Estado de onboarding
// @Description  Reconcilia con la realidad (correo, organización, solicitudes, invitaciones) antes de responder.
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.OnboardingResponse
// @Router       /api/onboarding [get]
func (h *OnboardingHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CompleteTask godoc
// @Summary      Completar tarea de onboarding
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Param        task  path  string  true  "Nombre de la tarea (p. ej. bookingCallCompleted)"
// @Success      200   {object}  dto.OnboardingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/onboarding/tasks/{task}/complete [post]
func (h *OnboardingHandler) CompleteTask(c *fiber.Ctx) error {
	out, err := h.uc.CompleteTask(c.UserContext(), GetActor(c), c.Params("task"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SkipTask godoc
// @Summary      Omitir tarea de onboarding
// @Description  Sólo omite tareas pendientes. Omitir midApplied también completa midSkipped.
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Param        task  path  string  true  "Nombre de la tarea"
// @Success      200   {object}  dto.OnboardingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/onboarding/tasks/{task}/skip [post]
func (h *OnboardingHandler) SkipTask(c *fiber.Ctx) error {
	out, err := h.uc.SkipTask(c.UserContext(), GetActor(c), c.Params("task"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CallReminderSent godoc
// @Summary      Marcar recordatorio de llamada enviado
// @Tags         onboarding
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.OnboardingResponse
// @Router       /api/onboarding/call-reminder [post]
func (h *OnboardingHandler) CallReminderSent(c *fiber.Ctx) error {
	out, err := h.uc.MarkCallReminderSent(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stream godoc
// @Summary      Stream del estado de onboarding (SSE)
// @Description  Emite un evento "onboarding" con el estado inicial y con cada cambio posterior.
// @Tags         onboarding
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /api/onboarding/stream [get]
func (h *OnboardingHandler) Stream(c *fiber.Ctx) error {
	// La sesión sobrevive al handler: el cuerpo se escribe después de retornar.
	ctx, cancel := context.WithCancel(context.Background())
	sess, err := h.uc.OpenSession(ctx, GetActor(c), h.feed)
	if err != nil {
		cancel()
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer sess.Close()

		ticker := time.NewTicker(streamHeartbeat)
		defer ticker.Stop()
		for {
			select {
			case resp, ok := <-sess.Updates():
				if !ok {
					return
				}
				data, err := json.Marshal(resp)
				if err != nil {
					return
				}
				fmt.Fprintf(w, "event: onboarding\ndata: %s\n\n", data)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			// Flush falla cuando el cliente se desconecta.
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}
