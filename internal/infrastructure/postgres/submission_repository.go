package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
)

// Asegura que SubmissionRepo implementa repository.SubmissionRepository.
var _ repository.SubmissionRepository = (*SubmissionRepo)(nil)

// SubmissionRepo solicitudes MID sobre PostgreSQL. Los datos del formulario, la
// firma y el historial se guardan como JSONB.
type SubmissionRepo struct {
	db Querier
}

// NewSubmissionRepository construye el adaptador con el pool.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{db: pool}
}

const submissionColumns = `
	id, owner_id, organization_id, data, status, submitted_at,
	signature_hash, digital_signature, change_history, created_at, updated_at`

type submissionDocs struct {
	data      []byte
	signature []byte
	history   []byte
}

// encodeSubmission serializa las columnas JSONB. entity.SubmissionData no tiene
// campo de identidad: el id vive sólo en la fila.
func encodeSubmission(s *entity.MIDSubmission) (submissionDocs, error) {
	var out submissionDocs
	var err error
	if out.data, err = json.Marshal(s.Data); err != nil {
		return out, fmt.Errorf("encode submission data: %w", err)
	}
	if out.signature, err = json.Marshal(s.DigitalSignature); err != nil {
		return out, fmt.Errorf("encode signature: %w", err)
	}
	history := s.ChangeHistory
	if history == nil {
		history = []entity.ChangeHistoryEntry{}
	}
	if out.history, err = json.Marshal(history); err != nil {
		return out, fmt.Errorf("encode change history: %w", err)
	}
	return out, nil
}

// Create persiste una solicitud nueva.
func (r *SubmissionRepo) Create(ctx context.Context, s *entity.MIDSubmission) error {
	docs, err := encodeSubmission(s)
	if err != nil {
		return err
	}
	query := `INSERT INTO mid_submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.db.Exec(ctx, query,
		s.ID, s.OwnerID, s.OrganizationID, docs.data, s.Status, s.SubmittedAt,
		s.SignatureHash, docs.signature, docs.history, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*entity.MIDSubmission, error) {
	row := r.db.QueryRow(ctx, `SELECT `+submissionColumns+` FROM mid_submissions WHERE id = $1`, id)
	s, err := scanSubmission(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return s, nil
}

// ListByOwner solicitudes del usuario, más recientes primero.
func (r *SubmissionRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.MIDSubmission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+submissionColumns+` FROM mid_submissions WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var list []*entity.MIDSubmission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return list, nil
}

// LatestByOrganization la solicitud más reciente de la organización. No hay
// unicidad por organización; gana la última creada.
func (r *SubmissionRepo) LatestByOrganization(ctx context.Context, organizationID string) (*entity.MIDSubmission, error) {
	row := r.db.QueryRow(ctx, `SELECT `+submissionColumns+` FROM mid_submissions
		WHERE organization_id = $1 ORDER BY created_at DESC LIMIT 1`, organizationID)
	s, err := scanSubmission(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest submission: %w", err)
	}
	return s, nil
}

// CountByOwner número de solicitudes del usuario.
func (r *SubmissionRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM mid_submissions WHERE owner_id = $1`, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

// Update reescribe el documento, el estado, la firma y el historial.
func (r *SubmissionRepo) Update(ctx context.Context, s *entity.MIDSubmission) error {
	docs, err := encodeSubmission(s)
	if err != nil {
		return err
	}
	query := `
		UPDATE mid_submissions SET
			data = $2, status = $3, submitted_at = $4, signature_hash = $5,
			digital_signature = $6, change_history = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		s.ID, docs.data, s.Status, s.SubmittedAt, s.SignatureHash,
		docs.signature, docs.history, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la solicitud.
func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM mid_submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSubmission(row pgx.Row) (*entity.MIDSubmission, error) {
	var (
		s                        entity.MIDSubmission
		data, signature, history []byte
	)
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.OrganizationID, &data, &s.Status, &s.SubmittedAt,
		&s.SignatureHash, &signature, &history, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.Data); err != nil {
		return nil, fmt.Errorf("decode submission data: %w", err)
	}
	if len(signature) > 0 {
		if err := json.Unmarshal(signature, &s.DigitalSignature); err != nil {
			return nil, fmt.Errorf("decode signature: %w", err)
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &s.ChangeHistory); err != nil {
			return nil, fmt.Errorf("decode change history: %w", err)
		}
	}
	if s.ChangeHistory == nil {
		s.ChangeHistory = []entity.ChangeHistoryEntry{}
	}
	return &s, nil
}
