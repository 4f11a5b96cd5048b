package repository

import (
	"context"

	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

// SubmissionRepository puerto del almacén de solicitudes MID.
// La clave de identidad es la del almacén; nunca se toma del documento.
// No impone unicidad por organización: las consultas usan la solicitud más reciente.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *entity.MIDSubmission) error
	GetByID(ctx context.Context, id string) (*entity.MIDSubmission, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.MIDSubmission, error)
	LatestByOrganization(ctx context.Context, organizationID string) (*entity.MIDSubmission, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Update(ctx context.Context, sub *entity.MIDSubmission) error
	Delete(ctx context.Context, id string) error
}
