package onboarding_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/onboarding"
)

var (
	t0 = time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
)

// apply aplica las señales en orden y falla el test ante cualquier error.
func apply(t *testing.T, tr *onboarding.Tracker, s entity.OnboardingState, now time.Time, sigs ...onboarding.Signal) entity.OnboardingState {
	t.Helper()
	for _, sig := range sigs {
		var err error
		s, _, err = tr.Apply(s, sig, now)
		require.NoError(t, err)
	}
	return s
}

// allDone estado con todas las tareas contables terminadas en t0.
func allDone(t *testing.T, tr *onboarding.Tracker) entity.OnboardingState {
	t.Helper()
	return apply(t, tr, entity.NewOnboardingState("user-1"), t0,
		onboarding.EmailVerified(true),
		onboarding.OrganizationFound(true),
		onboarding.SubmissionExists(true),
		onboarding.CompleteTask(entity.TaskBookingCallCompleted),
		onboarding.SkipTask(entity.TaskCoworkersInvited),
		onboarding.CompleteTask(entity.TaskWalkthroughCompleted),
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Progreso
// ──────────────────────────────────────────────────────────────────────────────

func TestProgress_ExcluyeMidSkipped(t *testing.T) {
	tr := onboarding.NewTracker(nil)
	assert.Equal(t, 6, tr.Counted(), "midSkipped se guarda pero no cuenta")

	s := apply(t, tr, entity.NewOnboardingState("user-1"), t0, onboarding.EmailVerified(true))
	assert.Equal(t, 17, tr.Progress(s), "round(100*1/6)")

	s = apply(t, tr, s, t0, onboarding.SkipTask(entity.TaskMIDApplied))
	assert.Equal(t, 33, tr.Progress(s), "omitida cuenta como terminada")
}

func TestProgress_ListaConfigurable(t *testing.T) {
	tr := onboarding.NewTracker([]onboarding.Task{
		{Name: entity.TaskEmailVerified, CountsTowardProgress: true},
		{Name: entity.TaskWalkthroughCompleted, CountsTowardProgress: true},
	})
	s := apply(t, tr, entity.NewOnboardingState("user-1"), t0, onboarding.EmailVerified(true))
	assert.Equal(t, 50, tr.Progress(s))

	_, _, err := tr.Apply(s, onboarding.CompleteTask(entity.TaskMIDApplied), t0)
	assert.ErrorIs(t, err, domain.ErrUnknownTask, "tareas fuera de la lista no existen para este tracker")
}

func TestProgress_SinTareasContables(t *testing.T) {
	tr := onboarding.NewTracker([]onboarding.Task{{Name: entity.TaskMIDSkipped}})
	assert.Equal(t, 100, tr.Progress(entity.NewOnboardingState("user-1")))
}

// ──────────────────────────────────────────────────────────────────────────────
// completedAt
// ──────────────────────────────────────────────────────────────────────────────

func TestCompletedAt_SeSellaAlTerminarTodo(t *testing.T) {
	tr := onboarding.NewTracker(nil)
	s := allDone(t, tr)

	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, t0, *s.CompletedAt)
	assert.Equal(t, 100, tr.Progress(s))
}

func TestCompletedAt_RecalcularEsIdempotente(t *testing.T) {
	tr := onboarding.NewTracker(nil)
	s := allDone(t, tr)

	again, stamped := tr.Recompute(s, t1)
	assert.False(t, stamped)
	assert.Equal(t, s, again)

	same, changed, err := tr.Apply(s, onboarding.EmailVerified(true), t1)
	require.NoError(t, err)
	assert.False(t, changed, "repetir una señal no cambia nada")
	assert.Equal(t, t0, *same.CompletedAt, "no se vuelve a sellar")
	assert.Equal(t, s.UpdatedAt, same.UpdatedAt)
}

func TestCompletedAt_NoSeBorraSiMidAppliedRetrocede(t *testing.T) {
	tr := onboarding.NewTracker(nil)
	s := allDone(t, tr)
	s = apply(t, tr, s, t1, onboarding.CallReminderSent())
	require.True(t, s.CallReminderSent)

	s = apply(t, tr, s, t2, onboarding.SubmissionExists(false))

	assert.Equal(t, entity.TaskPending, s.Task(entity.TaskMIDApplied))
	assert.False(t, s.CallReminderSent, "el recordatorio depende de midApplied")
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, t0, *s.CompletedAt, "completedAt es monótono")
	assert.Less(t, tr.Progress(s), 100)
}

// ──────────────────────────────────────────────────────────────────────────────
// Señales
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_SenalesFalsasNoRetroceden(t *testing.T) {
	tr := onboarding.NewTracker(nil)
	s := apply(t, tr, entity.NewOnboardingState("user-1"), t0,
		onboarding.EmailVerified(true),
		onboarding.OrganizationFound(true),
		onboarding.InvitesExist(true),
	)

	s2, changed, err := tr.Apply(s, onboarding.EmailVerified(false), t1)
	require.NoError(t, err)
	assert.False(t, changed)
	s2 = apply(t, tr, s2, t1, onboarding.OrganizationFound(false), onboarding.InvitesExist(false))

	assert.Equal(t, entity.TaskComplete, s2.Task(entity.TaskEmailVerified))
	assert.Equal(t, entity.TaskComplete, s2.Task(entity.TaskOrganizationCreated))
	assert.Equal(t, entity.TaskComplete, s2.Task(entity.TaskCoworkersInvited))
}

func TestApply_InvitacionesMejoranOmitida(t *testing.T) {
	tr := onboarding.NewTracker(nil)
	s := apply(t, tr, entity.NewOnboardingState("user-1"), t0, onboarding.SkipTask(entity.TaskCoworkersInvited))
	require.Equal(t, entity.TaskSkipped, s.Task(entity.TaskCoworkersInvited))

	s = apply(t, tr, s, t1, onboarding.InvitesExist(false))
	assert.Equal(t, entity.TaskSkipped, s.Task(entity.TaskCoworkersInvited), "sin invitaciones no baja a pendiente")

	s = apply(t, tr, s, t1, onboarding.InvitesExist(true))
	assert.Equal(t, entity.TaskComplete, s.Task(entity.TaskCoworkersInvited))
}

func TestApply_OmitirMidAppliedCompletaMidSkipped(t *testing.T) {
	tr := onboarding.NewTracker(nil)
	s := apply(t, tr, entity.NewOnboardingState("user-1"), t0, onboarding.SkipTask(entity.TaskMIDApplied))

	assert.Equal(t, entity.TaskSkipped, s.Task(entity.TaskMIDApplied))
	assert.Equal(t, entity.TaskComplete, s.Task(entity.TaskMIDSkipped))

	s = apply(t, tr, s, t1, onboarding.SubmissionExists(false))
	assert.Equal(t, entity.TaskSkipped, s.Task(entity.TaskMIDApplied), "sin solicitudes una tarea omitida sigue omitida")
}

func TestApply_OmitirSoloTareasPendientes(t *testing.T) {
	tr := onboarding.NewTracker(nil)
	s := apply(t, tr, entity.NewOnboardingState("user-1"), t0, onboarding.CompleteTask(entity.TaskWalkthroughCompleted))

	s2, changed, err := tr.Apply(s, onboarding.SkipTask(entity.TaskWalkthroughCompleted), t1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, entity.TaskComplete, s2.Task(entity.TaskWalkthroughCompleted))
}

func TestApply_TareaDesconocida(t *testing.T) {
	tr := onboarding.NewTracker(nil)
	s := entity.NewOnboardingState("user-1")

	_, _, err := tr.Apply(s, onboarding.CompleteTask("rocketLaunched"), t0)
	assert.ErrorIs(t, err, domain.ErrUnknownTask)
	_, _, err = tr.Apply(s, onboarding.SkipTask("rocketLaunched"), t0)
	assert.ErrorIs(t, err, domain.ErrUnknownTask)
}

func TestApply_NoMutaElEstadoOriginal(t *testing.T) {
	tr := onboarding.NewTracker(nil)
	s := entity.NewOnboardingState("user-1")

	next := apply(t, tr, s, t0, onboarding.EmailVerified(true))
	assert.Equal(t, entity.TaskPending, s.Task(entity.TaskEmailVerified))
	assert.Equal(t, entity.TaskComplete, next.Task(entity.TaskEmailVerified))
	assert.Equal(t, t0, next.UpdatedAt)
}
