package mid

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/mid-portal-api/internal/application/dto"
	"github.com/jhoicas/mid-portal-api/internal/application/usecase"
	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	domainmid "github.com/jhoicas/mid-portal-api/internal/domain/mid"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
	"github.com/jhoicas/mid-portal-api/pkg/logger"
)

// EligibilityUseCase evalúa la elegibilidad MID con datos frescos del perfil.
// Se llama al cargar el perfil y otra vez justo antes del envío final, porque el
// perfil puede cambiar entre ambos momentos (otra pestaña, otro administrador).
type EligibilityUseCase struct {
	orgs      repository.OrganizationRepository
	region    RegionLookup      // nil = no se consulta (no bloquea)
	reminders ReminderScheduler // nil = sin recordatorios
	policy    domainmid.Policy
	log       *logger.Logger
	now       func() time.Time
}

// NewEligibilityUseCase construye el caso de uso. region y reminders pueden ser nil.
func NewEligibilityUseCase(
	orgs repository.OrganizationRepository,
	region RegionLookup,
	reminders ReminderScheduler,
	policy domainmid.Policy,
	log *logger.Logger,
) *EligibilityUseCase {
	return &EligibilityUseCase{
		orgs:      orgs,
		region:    region,
		reminders: reminders,
		policy:    policy,
		log:       log.Component("eligibility"),
		now:       time.Now,
	}
}

// Evaluate resuelve la organización del actor y evalúa. Inelegible no es error.
func (uc *EligibilityUseCase) Evaluate(ctx context.Context, actor dto.Actor, fundingType string) (*dto.EligibilityResponse, error) {
	requested, err := parseFundingType(fundingType, true)
	if err != nil {
		return nil, err
	}
	org, err := usecase.ResolveOrganization(ctx, uc.orgs, actor)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNoOrganization
	}
	res := uc.evaluateProfile(ctx, actor, org, requested)
	return ToEligibilityResponse(res), nil
}

// evaluateProfile resuelve la región y aplica la política. Programa recordatorios
// para cada carencia activa.
func (uc *EligibilityUseCase) evaluateProfile(ctx context.Context, actor dto.Actor, org *entity.OrganizationProfile, requested entity.FundingType) domainmid.EligibilityResult {
	region := uc.resolveRegion(ctx, org)
	res := uc.policy.Evaluate(org, region, requested, uc.now())

	if !res.Eligible {
		uc.log.Info().
			Str("organization_id", org.ID).
			Str("reason", string(res.Reason)).
			Str("funding_type", string(res.FundingType)).
			Msg("organización no elegible")
	}
	uc.scheduleReminders(ctx, actor, org, res.Cooldowns)
	return res
}

func (uc *EligibilityUseCase) resolveRegion(ctx context.Context, org *entity.OrganizationProfile) domainmid.RegionStatus {
	if uc.region == nil || org.PostalCode == nil {
		return domainmid.RegionUnknown
	}
	postal := strings.TrimSpace(*org.PostalCode)
	if postal == "" {
		return domainmid.RegionUnknown
	}
	inside, err := uc.region.IsInEligibleRegion(ctx, postal)
	if err != nil {
		// Fallo del colaborador: no se bloquea al solicitante por un error de infraestructura.
		uc.log.Warn().Err(err).Str("postal_code", postal).Msg("consulta de región fallida")
		return domainmid.RegionUnknown
	}
	if inside {
		return domainmid.RegionInside
	}
	return domainmid.RegionOutside
}

func (uc *EligibilityUseCase) scheduleReminders(ctx context.Context, actor dto.Actor, org *entity.OrganizationProfile, cooldowns []domainmid.Cooldown) {
	if uc.reminders == nil {
		return
	}
	for _, cd := range cooldowns {
		err := uc.reminders.ScheduleReapplyReminder(ctx, Reminder{
			OrganizationID: org.ID,
			UserID:         actor.UserID,
			Email:          actor.Email,
			FundingType:    cd.FundingType,
			ReapplyDate:    cd.ReapplyDate,
		})
		if err != nil {
			uc.log.Warn().Err(err).
				Str("organization_id", org.ID).
				Str("funding_type", string(cd.FundingType)).
				Msg("no se pudo programar recordatorio de reaplicación")
		}
	}
}

// parseFundingType valida el tipo pedido. Con allowEmpty, "" significa "cualquiera".
func parseFundingType(s string, allowEmpty bool) (entity.FundingType, error) {
	s = strings.TrimSpace(s)
	if s == "" && allowEmpty {
		return "", nil
	}
	ft := entity.FundingType(s)
	if !ft.Valid() {
		return "", domain.ErrInvalidInput
	}
	return ft, nil
}

// ToEligibilityResponse mapea el resultado de dominio a la respuesta HTTP.
func ToEligibilityResponse(res domainmid.EligibilityResult) *dto.EligibilityResponse {
	out := &dto.EligibilityResponse{
		Eligible:    res.Eligible,
		ReasonCode:  string(res.Reason),
		FundingType: string(res.FundingType),
		ReapplyDate: res.ReapplyDate,
		Cooldowns:   make([]dto.CooldownResponse, 0, len(res.Cooldowns)),
	}
	for _, cd := range res.Cooldowns {
		out.Cooldowns = append(out.Cooldowns, dto.CooldownResponse{
			FundingType: string(cd.FundingType),
			ApprovedAt:  cd.ApprovedAt,
			ReapplyDate: cd.ReapplyDate,
		})
	}
	return out
}
