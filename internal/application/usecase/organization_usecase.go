package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/mid-portal-api/internal/application/dto"
	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/mid"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
	"github.com/jhoicas/mid-portal-api/pkg/logger"
)

// DateLayout formato de fechas de negocio en la API.
const DateLayout = "2006-01-02"

// ResolveOrganization devuelve la organización del actor: la del token si viene
// informada, si no la que posee el usuario. (nil, nil) si no tiene ninguna.
func ResolveOrganization(ctx context.Context, repo repository.OrganizationRepository, actor dto.Actor) (*entity.OrganizationProfile, error) {
	if actor.OrganizationID != "" {
		org, err := repo.GetByID(ctx, actor.OrganizationID)
		if err != nil {
			return nil, err
		}
		if org != nil {
			return org, nil
		}
	}
	return repo.GetByOwner(ctx, actor.UserID)
}

// OrganizationUseCase perfil de la organización y su completitud.
type OrganizationUseCase struct {
	repo       repository.OrganizationRepository
	onboarding onboardingRefresher
	log        *logger.Logger
	now        func() time.Time
}

// NewOrganizationUseCase construye el caso de uso con el puerto de persistencia.
// onboarding puede ser nil.
func NewOrganizationUseCase(repo repository.OrganizationRepository, onboarding onboardingRefresher, log *logger.Logger) *OrganizationUseCase {
	return &OrganizationUseCase{
		repo:       repo,
		onboarding: onboarding,
		log:        log.Component("organizations"),
		now:        time.Now,
	}
}

// Create crea la organización del usuario. Devuelve domain.ErrConflict si ya tiene una.
func (uc *OrganizationUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	existing, err := uc.repo.GetByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}
	now := uc.now()
	org := &entity.OrganizationProfile{
		ID:        uuid.New().String(),
		OwnerID:   actor.UserID,
		Name:      strings.TrimSpace(in.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, org); err != nil {
		return nil, err
	}
	uc.log.Info().Str("organization_id", org.ID).Str("owner_id", org.OwnerID).Msg("organización creada")
	if uc.onboarding != nil {
		if err := uc.onboarding.Refresh(ctx, actor); err != nil {
			uc.log.Warn().Err(err).Str("user_id", actor.UserID).Msg("no se pudo recalcular onboarding tras crear organización")
		}
	}
	return ToOrganizationResponse(org), nil
}

// Get devuelve el perfil de la organización del actor.
func (uc *OrganizationUseCase) Get(ctx context.Context, actor dto.Actor) (*dto.OrganizationResponse, error) {
	org, err := ResolveOrganization(ctx, uc.repo, actor)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNoOrganization
	}
	return ToOrganizationResponse(org), nil
}

// HasOrganization informa si el actor ya tiene organización.
func (uc *OrganizationUseCase) HasOrganization(ctx context.Context, actor dto.Actor) (bool, error) {
	org, err := ResolveOrganization(ctx, uc.repo, actor)
	if err != nil {
		return false, err
	}
	return org != nil, nil
}

// Update aplica una actualización parcial del perfil.
func (uc *OrganizationUseCase) Update(ctx context.Context, actor dto.Actor, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	org, err := ResolveOrganization(ctx, uc.repo, actor)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNoOrganization
	}
	if err := applyOrganizationUpdate(org, in); err != nil {
		return nil, err
	}
	org.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, org); err != nil {
		return nil, err
	}
	return ToOrganizationResponse(org), nil
}

// Completion informa los campos obligatorios faltantes y los errores de formato.
// Sin organización todos los campos faltan; no es un error.
func (uc *OrganizationUseCase) Completion(ctx context.Context, actor dto.Actor) (*dto.CompletionResponse, error) {
	org, err := ResolveOrganization(ctx, uc.repo, actor)
	if err != nil {
		return nil, err
	}
	res := mid.CheckCompletion(org, actor.Email)
	out := &dto.CompletionResponse{
		AllFieldsFilled: res.AllFieldsFilled,
		MissingFields:   res.MissingFields,
		FormatErrors:    []dto.FieldErrorResponse{},
	}
	for _, fe := range mid.ValidateProfileFormats(org, actor.Email) {
		out.FormatErrors = append(out.FormatErrors, dto.FieldErrorResponse{Field: fe.Field, Code: fe.Code})
	}
	return out, nil
}

func applyOrganizationUpdate(org *entity.OrganizationProfile, in dto.UpdateOrganizationRequest) error {
	if in.Name != nil {
		org.Name = strings.TrimSpace(*in.Name)
	}
	setString(&org.LegalName, in.LegalName)
	setString(&org.TaxID, in.TaxID)
	setString(&org.Street, in.Street)
	setString(&org.PostalCode, in.PostalCode)
	setString(&org.City, in.City)
	setString(&org.Country, in.Country)
	setString(&org.IBAN, in.IBAN)
	setString(&org.BIC, in.BIC)
	setString(&org.BankName, in.BankName)
	setString(&org.AccountHolder, in.AccountHolder)
	setString(&org.Industry, in.Industry)
	setString(&org.CompanyCategory, in.CompanyCategory)
	setString(&org.TotalEmployees, in.TotalEmployees)
	setString(&org.EmployeeCount, in.EmployeeCount)
	setString(&org.FirstName, in.FirstName)
	setString(&org.LastName, in.LastName)
	setString(&org.Email, in.Email)
	if in.FullTimeEquivalents != nil {
		fte := *in.FullTimeEquivalents
		org.FullTimeEquivalents = &fte
	}
	if in.HasReceivedMIDDigitisation != nil {
		v := *in.HasReceivedMIDDigitisation
		org.HasReceivedMIDDigitisation = &v
	}
	if in.HasReceivedMIDDigitalSecurity != nil {
		v := *in.HasReceivedMIDDigitalSecurity
		org.HasReceivedMIDDigitalSecurity = &v
	}
	for _, d := range []struct {
		dst **time.Time
		src *string
		key string
	}{
		{&org.FoundingDate, in.FoundingDate, "foundingDate"},
		{&org.LastMIDDigitisationApprovalDate, in.LastMIDDigitisationApprovalDate, "lastMIDDigitisationApprovalDate"},
		{&org.LastMIDDigitalSecurityApprovalDate, in.LastMIDDigitalSecurityApprovalDate, "lastMIDDigitalSecurityApprovalDate"},
	} {
		if err := setDate(d.dst, d.src); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, d.key, err)
		}
	}
	return nil
}

// setString copia src en dst si viene informado. "" deja el campo vacío pero presente.
func setString(dst **string, src *string) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	*dst = &v
}

// setDate interpreta YYYY-MM-DD; "" borra la fecha.
func setDate(dst **time.Time, src *string) error {
	if src == nil {
		return nil
	}
	s := strings.TrimSpace(*src)
	if s == "" {
		*dst = nil
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	*dst = &t
	return nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// ToOrganizationResponse mapea la entidad a la respuesta HTTP.
func ToOrganizationResponse(o *entity.OrganizationProfile) *dto.OrganizationResponse {
	if o == nil {
		return nil
	}
	return &dto.OrganizationResponse{
		ID:                                 o.ID,
		OwnerID:                            o.OwnerID,
		Name:                               o.Name,
		LegalName:                          o.LegalName,
		TaxID:                              o.TaxID,
		FoundingDate:                       formatDate(o.FoundingDate),
		Street:                             o.Street,
		PostalCode:                         o.PostalCode,
		City:                               o.City,
		Country:                            o.Country,
		IBAN:                               o.IBAN,
		BIC:                                o.BIC,
		BankName:                           o.BankName,
		AccountHolder:                      o.AccountHolder,
		Industry:                           o.Industry,
		CompanyCategory:                    o.CompanyCategory,
		TotalEmployees:                     o.TotalEmployees,
		EmployeeCount:                      o.EmployeeCount,
		FullTimeEquivalents:                o.FullTimeEquivalents,
		FirstName:                          o.FirstName,
		LastName:                           o.LastName,
		Email:                              o.Email,
		HasReceivedMIDDigitisation:         o.HasReceivedMIDDigitisation,
		LastMIDDigitisationApprovalDate:    formatDate(o.LastMIDDigitisationApprovalDate),
		HasReceivedMIDDigitalSecurity:      o.HasReceivedMIDDigitalSecurity,
		LastMIDDigitalSecurityApprovalDate: formatDate(o.LastMIDDigitalSecurityApprovalDate),
		CreatedAt:                          o.CreatedAt,
		UpdatedAt:                          o.UpdatedAt,
	}
}
