// Package onboarding orquesta el tracker de onboarding con los repositorios:
// reúne las señales reales (correo verificado, organización, solicitudes,
// invitaciones), corrige la deriva del estado guardado y lo persiste.
package onboarding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/mid-portal-api/internal/application/dto"
	"github.com/jhoicas/mid-portal-api/internal/application/usecase"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	domainonboarding "github.com/jhoicas/mid-portal-api/internal/domain/onboarding"
	"github.com/jhoicas/mid-portal-api/internal/domain/repository"
	"github.com/jhoicas/mid-portal-api/pkg/logger"
)

// UseCase casos de uso de onboarding.
type UseCase struct {
	states  repository.OnboardingRepository
	orgs    repository.OrganizationRepository
	subs    repository.SubmissionRepository
	invites repository.InviteRepository
	tracker *domainonboarding.Tracker
	log     *logger.Logger
	now     func() time.Time
}

// NewUseCase construye el caso de uso. tracker nil usa las tareas por defecto.
func NewUseCase(
	states repository.OnboardingRepository,
	orgs repository.OrganizationRepository,
	subs repository.SubmissionRepository,
	invites repository.InviteRepository,
	tracker *domainonboarding.Tracker,
	log *logger.Logger,
) *UseCase {
	if tracker == nil {
		tracker = domainonboarding.NewTracker(nil)
	}
	return &UseCase{
		states:  states,
		orgs:    orgs,
		subs:    subs,
		invites: invites,
		tracker: tracker,
		log:     log.Component("onboarding"),
		now:     time.Now,
	}
}

// Tracker devuelve la máquina de estados configurada.
func (uc *UseCase) Tracker() *domainonboarding.Tracker { return uc.tracker }

// Refresh reconcilia y persiste si hubo cambios.
func (uc *UseCase) Refresh(ctx context.Context, actor dto.Actor) error {
	_, err := uc.reconcile(ctx, actor)
	return err
}

// Get reconcilia y devuelve el estado con su progreso.
func (uc *UseCase) Get(ctx context.Context, actor dto.Actor) (*dto.OnboardingResponse, error) {
	st, err := uc.reconcile(ctx, actor)
	if err != nil {
		return nil, err
	}
	return uc.ToResponse(st), nil
}

// CompleteTask marca una tarea como completada por acción del usuario.
func (uc *UseCase) CompleteTask(ctx context.Context, actor dto.Actor, task string) (*dto.OnboardingResponse, error) {
	return uc.applyUserSignal(ctx, actor, domainonboarding.CompleteTask(entity.TaskName(strings.TrimSpace(task))))
}

// SkipTask omite una tarea pendiente. Omitir midApplied también completa midSkipped.
func (uc *UseCase) SkipTask(ctx context.Context, actor dto.Actor, task string) (*dto.OnboardingResponse, error) {
	return uc.applyUserSignal(ctx, actor, domainonboarding.SkipTask(entity.TaskName(strings.TrimSpace(task))))
}

// MarkCallReminderSent registra que ya se envió el recordatorio de la llamada.
func (uc *UseCase) MarkCallReminderSent(ctx context.Context, actor dto.Actor) (*dto.OnboardingResponse, error) {
	return uc.applyUserSignal(ctx, actor, domainonboarding.CallReminderSent())
}

func (uc *UseCase) applyUserSignal(ctx context.Context, actor dto.Actor, sig domainonboarding.Signal) (*dto.OnboardingResponse, error) {
	st, err := uc.reconcile(ctx, actor)
	if err != nil {
		return nil, err
	}
	next, changed, err := uc.tracker.Apply(st, sig, uc.now())
	if err != nil {
		return nil, err
	}
	if changed {
		if err := uc.states.Save(ctx, &next); err != nil {
			return nil, fmt.Errorf("guardar onboarding: %w", err)
		}
	}
	return uc.ToResponse(next), nil
}

// Signals observa la realidad del usuario y la traduce a señales del tracker.
func (uc *UseCase) Signals(ctx context.Context, actor dto.Actor) ([]domainonboarding.Signal, error) {
	org, err := usecase.ResolveOrganization(ctx, uc.orgs, actor)
	if err != nil {
		return nil, fmt.Errorf("buscar organización: %w", err)
	}
	n, err := uc.subs.CountByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("contar solicitudes: %w", err)
	}
	invited := false
	if org != nil {
		invited, err = uc.invites.ExistsForOrganization(ctx, org.ID)
		if err != nil {
			return nil, fmt.Errorf("buscar invitaciones: %w", err)
		}
	}
	return []domainonboarding.Signal{
		domainonboarding.EmailVerified(actor.EmailVerified),
		domainonboarding.OrganizationFound(org != nil),
		domainonboarding.SubmissionExists(n > 0),
		domainonboarding.InvitesExist(invited),
	}, nil
}

// reconcile carga (o crea) el estado, aplica las señales observadas y lo guarda si cambió.
func (uc *UseCase) reconcile(ctx context.Context, actor dto.Actor) (entity.OnboardingState, error) {
	stored, err := uc.states.Get(ctx, actor.UserID)
	if err != nil {
		return entity.OnboardingState{}, fmt.Errorf("leer onboarding: %w", err)
	}
	st := entity.NewOnboardingState(actor.UserID)
	if stored != nil {
		st = *stored
	}
	signals, err := uc.Signals(ctx, actor)
	if err != nil {
		return entity.OnboardingState{}, err
	}
	next, changed, err := uc.reconcileState(st, signals)
	if err != nil {
		return entity.OnboardingState{}, err
	}
	if !changed && stored != nil {
		return st, nil
	}
	if err := uc.states.Save(ctx, &next); err != nil {
		return entity.OnboardingState{}, fmt.Errorf("guardar onboarding: %w", err)
	}
	if stored != nil {
		uc.log.Info().Str("user_id", actor.UserID).Int("progress", uc.tracker.Progress(next)).Msg("onboarding reconciliado")
	}
	return next, nil
}

func (uc *UseCase) reconcileState(st entity.OnboardingState, signals []domainonboarding.Signal) (entity.OnboardingState, bool, error) {
	now := uc.now()
	changed := false
	for _, sig := range signals {
		next, c, err := uc.tracker.Apply(st, sig, now)
		if err != nil {
			return st, false, err
		}
		if c {
			st = next
			changed = true
		}
	}
	if next, stamped := uc.tracker.Recompute(st, now); stamped {
		next.UpdatedAt = now
		st = next
		changed = true
	}
	return st, changed, nil
}

// ToResponse mapea el estado, en el orden de la lista de tareas, con su progreso.
func (uc *UseCase) ToResponse(st entity.OnboardingState) *dto.OnboardingResponse {
	tasks := uc.tracker.Tasks()
	out := &dto.OnboardingResponse{
		UserID:           st.UserID,
		Tasks:            make([]dto.OnboardingTaskResponse, 0, len(tasks)),
		Progress:         uc.tracker.Progress(st),
		CallReminderSent: st.CallReminderSent,
		CompletedAt:      st.CompletedAt,
	}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, dto.OnboardingTaskResponse{
			Name:                 string(t.Name),
			Status:               st.Task(t.Name),
			CountsTowardProgress: t.CountsTowardProgress,
		})
	}
	return out
}
