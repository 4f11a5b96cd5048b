package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
)

// Asegura que InviteRepo implementa repository.InviteRepository.
var _ repository.InviteRepository = (*InviteRepo)(nil)

// InviteRepo invitaciones sobre PostgreSQL.
type InviteRepo struct {
	db Querier
}

// NewInviteRepository construye el adaptador con el pool.
func NewInviteRepository(pool *pgxpool.Pool) *InviteRepo {
	return &InviteRepo{db: pool}
}

// Create persiste la invitación. Invitar dos veces el mismo correo es conflicto.
func (r *InviteRepo) Create(ctx context.Context, inv *entity.Invite) error {
	query := `
		INSERT INTO invites (id, organization_id, email, invited_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, inv.ID, inv.OrganizationID, inv.Email, inv.InvitedBy, inv.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert invite: %w", err)
	}
	return nil
}

// ListByOrganization invitaciones de la organización, más recientes primero.
func (r *InviteRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Invite, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, organization_id, email, invited_by, created_at
		FROM invites WHERE organization_id = $1 ORDER BY created_at DESC`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invite
	for rows.Next() {
		var inv entity.Invite
		if err := rows.Scan(&inv.ID, &inv.OrganizationID, &inv.Email, &inv.InvitedBy, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// ExistsForOrganization informa si la organización ya invitó a alguien.
func (r *InviteRepo) ExistsForOrganization(ctx context.Context, organizationID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invites WHERE organization_id = $1)`, organizationID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists invites: %w", err)
	}
	return exists, nil
}
