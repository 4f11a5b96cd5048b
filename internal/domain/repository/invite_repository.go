package repository

import (
	"context"

	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

// InviteRepository invitaciones a la organización.
type InviteRepository interface {
	Create(ctx context.Context, invite *entity.Invite) error
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Invite, error)
	ExistsForOrganization(ctx context.Context, organizationID string) (bool, error)
}
