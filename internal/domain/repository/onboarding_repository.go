package repository

import (
	"context"

	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

// OnboardingRepository persistencia del estado de onboarding por usuario.
// Get devuelve (nil, nil) si el usuario aún no tiene estado.
type OnboardingRepository interface {
	Get(ctx context.Context, userID string) (*entity.OnboardingState, error)
	Save(ctx context.Context, state *entity.OnboardingState) error
}

// OnboardingFeed notificaciones en vivo de cambios del estado de un usuario.
// Subscribe invoca onChange con el estado recién leído tras cada cambio y
// devuelve la función para cancelar la suscripción.
type OnboardingFeed interface {
	Subscribe(ctx context.Context, userID string, onChange func(entity.OnboardingState)) (unsubscribe func(), err error)
}
