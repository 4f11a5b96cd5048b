package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/mid-portal-api/internal/application/dto"
	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
	"github.com/jhoicas/mid-portal-api/pkg/logger"
)

// onboardingRefresher recalcula el onboarding tras un cambio que le afecta.
type onboardingRefresher interface {
	Refresh(ctx context.Context, actor dto.Actor) error
}

// InviteUseCase invitaciones de compañeros a la organización.
type InviteUseCase struct {
	invites    repository.InviteRepository
	orgs       repository.OrganizationRepository
	onboarding onboardingRefresher
	log        *logger.Logger
	now        func() time.Time
}

// NewInviteUseCase construye el caso de uso. onboarding puede ser nil.
func NewInviteUseCase(invites repository.InviteRepository, orgs repository.OrganizationRepository, onboarding onboardingRefresher, log *logger.Logger) *InviteUseCase {
	return &InviteUseCase{
		invites:    invites,
		orgs:       orgs,
		onboarding: onboarding,
		log:        log.Component("invites"),
		now:        time.Now,
	}
}

// Create registra la invitación y recalcula el onboarding del que invita.
func (uc *InviteUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateInviteRequest) (*dto.InviteResponse, error) {
	org, err := ResolveOrganization(ctx, uc.orgs, actor)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNoOrganization
	}
	inv := &entity.Invite{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		InvitedBy:      actor.UserID,
		CreatedAt:      uc.now(),
	}
	if err := uc.invites.Create(ctx, inv); err != nil {
		return nil, err
	}
	if uc.onboarding != nil {
		if err := uc.onboarding.Refresh(ctx, actor); err != nil {
			// La invitación ya existe; el onboarding se reconcilia en la próxima lectura.
			uc.log.Warn().Err(err).Str("user_id", actor.UserID).Msg("no se pudo recalcular onboarding tras invitación")
		}
	}
	return toInviteResponse(inv), nil
}

// List invitaciones de la organización del actor.
func (uc *InviteUseCase) List(ctx context.Context, actor dto.Actor) (*dto.InviteListResponse, error) {
	org, err := ResolveOrganization(ctx, uc.orgs, actor)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNoOrganization
	}
	list, err := uc.invites.ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InviteResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInviteResponse(inv))
	}
	return &dto.InviteListResponse{Items: items}, nil
}

func toInviteResponse(inv *entity.Invite) *dto.InviteResponse {
	return &dto.InviteResponse{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		Email:          inv.Email,
		InvitedBy:      inv.InvitedBy,
		CreatedAt:      inv.CreatedAt,
	}
}
