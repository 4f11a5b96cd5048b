package repository

import (
	"context"

	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

// OrganizationRepository puerto de persistencia de perfiles de organización.
// GetByID y GetByOwner devuelven (nil, nil) si no existe.
type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.OrganizationProfile) error
	GetByID(ctx context.Context, id string) (*entity.OrganizationProfile, error)
	GetByOwner(ctx context.Context, ownerID string) (*entity.OrganizationProfile, error)
	Update(ctx context.Context, org *entity.OrganizationProfile) error
}
