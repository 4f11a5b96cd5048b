package mid

import (
	"context"
	"time"

	"github.com/jhoicas/mid-portal-api/internal/application/dto"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

// RegionLookup consulta si un código postal pertenece a la región elegible.
// La implementación vive en infrastructure/region.
type RegionLookup interface {
	IsInEligibleRegion(ctx context.Context, postalCode string) (bool, error)
}

// Reminder recordatorio de reaplicación al terminar una carencia.
type Reminder struct {
	OrganizationID string
	UserID         string
	Email          string
	FundingType    entity.FundingType
	ReapplyDate    time.Time
}

// ReminderScheduler colaborador externo que programa el recordatorio.
type ReminderScheduler interface {
	ScheduleReapplyReminder(ctx context.Context, r Reminder) error
}

// OnboardingRefresher recalcula el onboarding tras crear, enviar o borrar solicitudes.
type OnboardingRefresher interface {
	Refresh(ctx context.Context, actor dto.Actor) error
}
