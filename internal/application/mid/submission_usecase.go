package mid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/mid-portal-api/internal/application/dto"
	"github.com/jhoicas/mid-portal-api/internal/application/usecase"
	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	domainmid "github.com/jhoicas/mid-portal-api/internal/domain/mid"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
	"github.com/jhoicas/mid-portal-api/pkg/logger"
)

// IncompleteProfileError el perfil no tiene todos los campos obligatorios;
// MissingFields conserva el orden del esquema para pintar la checklist.
type IncompleteProfileError struct {
	MissingFields []string
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("%s: faltan %s", domain.ErrIncompleteProfile, strings.Join(e.MissingFields, ", "))
}

func (e *IncompleteProfileError) Unwrap() error { return domain.ErrIncompleteProfile }

// SubmissionUseCase ciclo de vida de las solicitudes MID: borrador, edición auditada,
// envío firmado y borrado.
type SubmissionUseCase struct {
	subs        repository.SubmissionRepository
	orgs        repository.OrganizationRepository
	eligibility *EligibilityUseCase
	onboarding  OnboardingRefresher // nil = sin recálculo
	log         *logger.Logger
	now         func() time.Time
}

// NewSubmissionUseCase construye el caso de uso.
func NewSubmissionUseCase(
	subs repository.SubmissionRepository,
	orgs repository.OrganizationRepository,
	eligibility *EligibilityUseCase,
	onboarding OnboardingRefresher,
	log *logger.Logger,
) *SubmissionUseCase {
	return &SubmissionUseCase{
		subs:        subs,
		orgs:        orgs,
		eligibility: eligibility,
		onboarding:  onboarding,
		log:         log.Component("submissions"),
		now:         time.Now,
	}
}

// Create abre una solicitud nueva con la copia actual del perfil. El perfil debe
// tener todos los campos obligatorios; si no, devuelve *IncompleteProfileError.
// El ID lo genera el caso de uso, nunca el payload.
func (uc *SubmissionUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error) {
	ft, err := parseFundingType(in.FundingType, false)
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
	if res := domainmid.CheckCompletion(org, actor.Email); !res.AllFieldsFilled {
		return nil, &IncompleteProfileError{MissingFields: res.MissingFields}
	}

	data := SnapshotProfile(org, actor.Email)
	if err := applySubmissionFields(&data, in.SubmissionFields); err != nil {
		return nil, err
	}
	data.FundingType = ft

	now := uc.now()
	sub := &entity.MIDSubmission{
		ID:             uuid.New().String(),
		OwnerID:        actor.UserID,
		OrganizationID: org.ID,
		Data:           data,
		Status:         entity.SubmissionPending,
		ChangeHistory:  []entity.ChangeHistoryEntry{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.subs.Create(ctx, sub); err != nil {
		return nil, err
	}
	uc.log.Info().Str("submission_id", sub.ID).Str("organization_id", org.ID).Msg("solicitud MID creada")
	uc.refreshOnboarding(ctx, actor)
	return ToSubmissionResponse(sub), nil
}

// Update aplica una edición parcial y registra en el historial los cambios de los
// campos auditados (máximo dos entradas por campo). Una solicitud enviada es de
// sólo lectura: su SignatureHash cubre los datos firmados.
func (uc *SubmissionUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateSubmissionRequest) (*dto.SubmissionResponse, error) {
	sub, err := uc.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == entity.SubmissionSubmitted {
		return nil, domain.ErrAlreadySubmitted
	}
	prev := sub.Data
	next := sub.Data
	if err := applySubmissionFields(&next, in.SubmissionFields); err != nil {
		return nil, err
	}
	now := uc.now()
	changes := domainmid.RecordChanges(&prev, &next, actor.UserID, now)

	sub.Data = next
	sub.ChangeHistory = domainmid.MergeHistory(sub.ChangeHistory, changes)
	sub.UpdatedAt = now
	if err := uc.subs.Update(ctx, sub); err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		uc.log.Info().Str("submission_id", sub.ID).Int("changes", len(changes)).Msg("solicitud MID modificada")
	}
	return ToSubmissionResponse(sub), nil
}

// GetByID devuelve una solicitud del actor.
func (uc *SubmissionUseCase) GetByID(ctx context.Context, actor dto.Actor, id string) (*dto.SubmissionResponse, error) {
	sub, err := uc.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToSubmissionResponse(sub), nil
}

// ListByOwner solicitudes del actor, más recientes primero.
func (uc *SubmissionUseCase) ListByOwner(ctx context.Context, actor dto.Actor) (*dto.SubmissionListResponse, error) {
	list, err := uc.subs.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SubmissionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToSubmissionResponse(s))
	}
	return &dto.SubmissionListResponse{Items: items}, nil
}

// Delete borra la solicitud. Si era la última, el onboarding vuelve a marcar
// midApplied como pendiente.
func (uc *SubmissionUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	sub, err := uc.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.subs.Delete(ctx, sub.ID); err != nil {
		return err
	}
	uc.log.Info().Str("submission_id", sub.ID).Msg("solicitud MID eliminada")
	uc.refreshOnboarding(ctx, actor)
	return nil
}

// Submit envío final. Re-evalúa la elegibilidad con el perfil actual; si ya no es
// elegible devuelve Submitted=false con el motivo, sin error.
func (uc *SubmissionUseCase) Submit(ctx context.Context, actor dto.Actor, id string, in dto.SubmitRequest) (*dto.SubmitResponse, error) {
	sub, err := uc.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == entity.SubmissionSubmitted {
		return nil, domain.ErrAlreadySubmitted
	}
	if !in.AcceptTerms {
		return nil, domain.ErrSignatureRequired
	}
	org, err := uc.orgs.GetByID(ctx, sub.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNoOrganization
	}

	res := uc.eligibility.evaluateProfile(ctx, actor, org, sub.Data.FundingType)
	if !res.Eligible {
		return &dto.SubmitResponse{Submitted: false, Eligibility: *ToEligibilityResponse(res)}, nil
	}

	now := uc.now()
	sig := entity.DigitalSignature{
		Accepted:          true,
		AcceptedAt:        &now,
		ClientFingerprint: strings.TrimSpace(in.ClientFingerprint),
	}
	hash, err := domainmid.SignatureHash(sub.Data, sig)
	if err != nil {
		return nil, fmt.Errorf("signature hash: %w", err)
	}
	sub.DigitalSignature = sig
	sub.SignatureHash = hash
	sub.Status = entity.SubmissionSubmitted
	sub.SubmittedAt = &now
	sub.UpdatedAt = now
	if err := uc.subs.Update(ctx, sub); err != nil {
		return nil, err
	}
	uc.log.Info().Str("submission_id", sub.ID).Str("funding_type", string(sub.Data.FundingType)).Msg("solicitud MID enviada")
	uc.refreshOnboarding(ctx, actor)

	return &dto.SubmitResponse{
		Submitted:   true,
		Eligibility: *ToEligibilityResponse(res),
		Submission:  ToSubmissionResponse(sub),
	}, nil
}

// owned carga la solicitud y comprueba que pertenece al actor.
func (uc *SubmissionUseCase) owned(ctx context.Context, actor dto.Actor, id string) (*entity.MIDSubmission, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidInput
	}
	sub, err := uc.subs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrNotFound
	}
	if sub.OwnerID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return sub, nil
}

func (uc *SubmissionUseCase) refreshOnboarding(ctx context.Context, actor dto.Actor) {
	if uc.onboarding == nil {
		return
	}
	if err := uc.onboarding.Refresh(ctx, actor); err != nil {
		uc.log.Warn().Err(err).Str("user_id", actor.UserID).Msg("no se pudo recalcular onboarding")
	}
}
