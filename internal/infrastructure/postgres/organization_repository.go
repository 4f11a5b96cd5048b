package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
)

// Asegura que OrganizationRepo implementa repository.OrganizationRepository.
var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo perfiles de organización sobre PostgreSQL.
type OrganizationRepo struct {
	db Querier
}

// NewOrganizationRepository construye el adaptador con el pool.
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepo {
	return &OrganizationRepo{db: pool}
}

const organizationColumns = `
	id, owner_id, name, legal_name, tax_id, founding_date,
	street, postal_code, city, country,
	iban, bic, bank_name, account_holder,
	industry, company_category, total_employees, employee_count, full_time_equivalents,
	first_name, last_name, email,
	has_received_mid_digitisation, last_mid_digitisation_approval_date,
	has_received_mid_digital_security, last_mid_digital_security_approval_date,
	created_at, updated_at`

func organizationArgs(o *entity.OrganizationProfile) []any {
	return []any{
		o.ID, o.OwnerID, o.Name, o.LegalName, o.TaxID, o.FoundingDate,
		o.Street, o.PostalCode, o.City, o.Country,
		o.IBAN, o.BIC, o.BankName, o.AccountHolder,
		o.Industry, o.CompanyCategory, o.TotalEmployees, o.EmployeeCount, o.FullTimeEquivalents,
		o.FirstName, o.LastName, o.Email,
		o.HasReceivedMIDDigitisation, o.LastMIDDigitisationApprovalDate,
		o.HasReceivedMIDDigitalSecurity, o.LastMIDDigitalSecurityApprovalDate,
		o.CreatedAt, o.UpdatedAt,
	}
}

// Create persiste una organización nueva. Un usuario sólo puede poseer una.
func (r *OrganizationRepo) Create(ctx context.Context, o *entity.OrganizationProfile) error {
	query := `INSERT INTO organizations (` + organizationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`
	if _, err := r.db.Exec(ctx, query, organizationArgs(o)...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetByID obtiene una organización por ID.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.OrganizationProfile, error) {
	return r.getOne(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id)
}

// GetByOwner obtiene la organización que posee el usuario.
func (r *OrganizationRepo) GetByOwner(ctx context.Context, ownerID string) (*entity.OrganizationProfile, error) {
	return r.getOne(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE owner_id = $1`, ownerID)
}

func (r *OrganizationRepo) getOne(ctx context.Context, query string, arg string) (*entity.OrganizationProfile, error) {
	var o entity.OrganizationProfile
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&o.ID, &o.OwnerID, &o.Name, &o.LegalName, &o.TaxID, &o.FoundingDate,
		&o.Street, &o.PostalCode, &o.City, &o.Country,
		&o.IBAN, &o.BIC, &o.BankName, &o.AccountHolder,
		&o.Industry, &o.CompanyCategory, &o.TotalEmployees, &o.EmployeeCount, &o.FullTimeEquivalents,
		&o.FirstName, &o.LastName, &o.Email,
		&o.HasReceivedMIDDigitisation, &o.LastMIDDigitisationApprovalDate,
		&o.HasReceivedMIDDigitalSecurity, &o.LastMIDDigitalSecurityApprovalDate,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &o, nil
}

// Update reemplaza el perfil completo (el caso de uso ya aplicó el parcial).
func (r *OrganizationRepo) Update(ctx context.Context, o *entity.OrganizationProfile) error {
	query := `
		UPDATE organizations SET
			name = $3, legal_name = $4, tax_id = $5, founding_date = $6,
			street = $7, postal_code = $8, city = $9, country = $10,
			iban = $11, bic = $12, bank_name = $13, account_holder = $14,
			industry = $15, company_category = $16, total_employees = $17, employee_count = $18,
			full_time_equivalents = $19,
			first_name = $20, last_name = $21, email = $22,
			has_received_mid_digitisation = $23, last_mid_digitisation_approval_date = $24,
			has_received_mid_digital_security = $25, last_mid_digital_security_approval_date = $26,
			updated_at = $27
		WHERE id = $1 AND owner_id = $2`
	// created_at no se modifica: se sustituye por updated_at en la posición 27.
	args := organizationArgs(o)[:26]
	args = append(args, o.UpdatedAt)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
