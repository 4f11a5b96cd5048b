package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mid-portal-api/internal/application/mid"
	"github.com/jhoicas/mid-portal-api/internal/application/onboarding"
	"github.com/jhoicas/mid-portal-api/internal/application/usecase"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrganizationUC *usecase.OrganizationUseCase
	InviteUC       *usecase.InviteUseCase
	EligibilityUC  *mid.EligibilityUseCase
	SubmissionUC   *mid.SubmissionUseCase
	OnboardingUC   *onboarding.UseCase
	OnboardingFeed repository.OnboardingFeed // opcional
	JWTSecret      string
	JWTIssuer      string
}

// Router registra las rutas de la API. Todas requieren Bearer Token del proveedor de identidad.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Organización
	orgHandler := NewOrganizationHandler(deps.OrganizationUC)
	api.Post("/organizations", orgHandler.Create)
	orgs := api.Group("/organizations/me")
	orgs.Get("/", orgHandler.Get)
	orgs.Put("/", orgHandler.Update)
	orgs.Get("/completion", orgHandler.Completion)

	// MID (requiere organización)
	midGroup := api.Group("/mid", RequireOrganization(deps.OrganizationUC))
	midHandler := NewMIDHandler(deps.EligibilityUC, deps.SubmissionUC)
	midGroup.Get("/eligibility", midHandler.Eligibility)
	midGroup.Post("/submissions", midHandler.Create)
	midGroup.Get("/submissions", midHandler.List)
	midGroup.Get("/submissions/:id", midHandler.GetByID)
	midGroup.Put("/submissions/:id", midHandler.Update)
	midGroup.Delete("/submissions/:id", midHandler.Delete)
	midGroup.Post("/submissions/:id/submit", midHandler.Submit)

	// Onboarding
	onbHandler := NewOnboardingHandler(deps.OnboardingUC, deps.OnboardingFeed)
	onb := api.Group("/onboarding")
	onb.Get("/", onbHandler.Get)
	onb.Get("/stream", onbHandler.Stream)
	onb.Post("/tasks/:task/complete", onbHandler.CompleteTask)
	onb.Post("/tasks/:task/skip", onbHandler.SkipTask)
	onb.Post("/call-reminder", onbHandler.CallReminderSent)

	// Invitaciones
	inviteHandler := NewInviteHandler(deps.InviteUC)
	invites := api.Group("/invites", RequireOrganization(deps.OrganizationUC))
	invites.Post("/", inviteHandler.Create)
	invites.Get("/", inviteHandler.List)
}
