// Package onboarding implementa la máquina de estados del progreso de onboarding.
//
// Cada tarea pasa de pendiente a completada u omitida y no vuelve atrás, salvo
// midApplied, que sigue a la existencia real de solicitudes en ambos sentidos.
// CompletedAt se fija la primera vez que todas las tareas contables están
// terminadas y no se borra aunque una tarea retroceda después.
package onboarding

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

// Task definición de una tarea y si cuenta para el porcentaje de progreso.
type Task struct {
	Name                 entity.TaskName
	CountsTowardProgress bool
}

// DefaultTasks lista vigente. midSkipped se conserva en almacenamiento pero no cuenta.
func DefaultTasks() []Task {
	return []Task{
		{Name: entity.TaskEmailVerified, CountsTowardProgress: true},
		{Name: entity.TaskOrganizationCreated, CountsTowardProgress: true},
		{Name: entity.TaskMIDApplied, CountsTowardProgress: true},
		{Name: entity.TaskMIDSkipped, CountsTowardProgress: false},
		{Name: entity.TaskBookingCallCompleted, CountsTowardProgress: true},
		{Name: entity.TaskCoworkersInvited, CountsTowardProgress: true},
		{Name: entity.TaskWalkthroughCompleted, CountsTowardProgress: true},
	}
}

// SignalKind tipo de señal que dispara un recálculo.
type SignalKind int

const (
	SignalEmailVerified SignalKind = iota + 1
	SignalOrganizationFound
	SignalSubmissionExists
	SignalInvitesExist
	SignalTaskCompleted
	SignalTaskSkipped
	SignalCallReminderSent
)

// Signal observación externa o acción del usuario.
type Signal struct {
	Kind  SignalKind
	Value bool
	Task  entity.TaskName
}

func EmailVerified(v bool) Signal     { return Signal{Kind: SignalEmailVerified, Value: v} }
func OrganizationFound(v bool) Signal { return Signal{Kind: SignalOrganizationFound, Value: v} }
func SubmissionExists(v bool) Signal  { return Signal{Kind: SignalSubmissionExists, Value: v} }
func InvitesExist(v bool) Signal      { return Signal{Kind: SignalInvitesExist, Value: v} }
func CallReminderSent() Signal        { return Signal{Kind: SignalCallReminderSent, Value: true} }

// CompleteTask acción explícita del usuario sobre una tarea.
func CompleteTask(name entity.TaskName) Signal { return Signal{Kind: SignalTaskCompleted, Task: name} }

// SkipTask omite una tarea pendiente.
func SkipTask(name entity.TaskName) Signal { return Signal{Kind: SignalTaskSkipped, Task: name} }

// Tracker aplica señales sobre estados de onboarding según una lista de tareas.
type Tracker struct {
	tasks []Task
	known map[entity.TaskName]Task
}

// NewTracker construye el tracker; con tasks vacío usa DefaultTasks.
func NewTracker(tasks []Task) *Tracker {
	if len(tasks) == 0 {
		tasks = DefaultTasks()
	}
	known := make(map[entity.TaskName]Task, len(tasks))
	for _, t := range tasks {
		known[t.Name] = t
	}
	return &Tracker{tasks: tasks, known: known}
}

// Tasks devuelve la configuración de tareas.
func (t *Tracker) Tasks() []Task {
	out := make([]Task, len(t.tasks))
	copy(out, t.tasks)
	return out
}

// Counted número de tareas que cuentan para el progreso.
func (t *Tracker) Counted() int {
	n := 0
	for _, task := range t.tasks {
		if task.CountsTowardProgress {
			n++
		}
	}
	return n
}

// Progress round(100 * terminadas / contables).
func (t *Tracker) Progress(s entity.OnboardingState) int {
	total := t.Counted()
	if total == 0 {
		return 100
	}
	done := 0
	for _, task := range t.tasks {
		if task.CountsTowardProgress && s.Task(task.Name).Done() {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// AllDone informa si todas las tareas contables están completadas u omitidas.
func (t *Tracker) AllDone(s entity.OnboardingState) bool {
	for _, task := range t.tasks {
		if task.CountsTowardProgress && !s.Task(task.Name).Done() {
			return false
		}
	}
	return true
}

// Recompute fija CompletedAt si corresponde. Idempotente: nunca re-sella ni borra.
func (t *Tracker) Recompute(s entity.OnboardingState, now time.Time) (entity.OnboardingState, bool) {
	if s.CompletedAt != nil || !t.AllDone(s) {
		return s, false
	}
	out := s.Clone()
	at := now
	out.CompletedAt = &at
	return out, true
}

// Apply aplica la señal sobre una copia de s. changed indica si algo cambió;
// aplicar dos veces la misma señal no produce cambios la segunda vez.
func (t *Tracker) Apply(s entity.OnboardingState, sig Signal, now time.Time) (entity.OnboardingState, bool, error) {
	out := s.Clone()
	changed := false

	set := func(name entity.TaskName, st entity.TaskStatus) {
		if out.Task(name) != st {
			out.Tasks[name] = st
			changed = true
		}
	}

	switch sig.Kind {
	case SignalEmailVerified:
		if sig.Value {
			set(entity.TaskEmailVerified, entity.TaskComplete)
		}
	case SignalOrganizationFound:
		if sig.Value {
			set(entity.TaskOrganizationCreated, entity.TaskComplete)
		}
	case SignalSubmissionExists:
		// Única tarea que puede retroceder: sigue a la realidad de las solicitudes.
		cur := out.Task(entity.TaskMIDApplied)
		switch {
		case sig.Value && cur != entity.TaskComplete:
			set(entity.TaskMIDApplied, entity.TaskComplete)
		case !sig.Value && cur == entity.TaskComplete:
			set(entity.TaskMIDApplied, entity.TaskPending)
			if out.CallReminderSent {
				out.CallReminderSent = false
				changed = true
			}
		}
	case SignalInvitesExist:
		if sig.Value {
			set(entity.TaskCoworkersInvited, entity.TaskComplete)
		}
	case SignalCallReminderSent:
		if !out.CallReminderSent {
			out.CallReminderSent = true
			changed = true
		}
	case SignalTaskCompleted:
		if _, ok := t.known[sig.Task]; !ok {
			return s, false, fmt.Errorf("%w: %s", domain.ErrUnknownTask, sig.Task)
		}
		set(sig.Task, entity.TaskComplete)
	case SignalTaskSkipped:
		if _, ok := t.known[sig.Task]; !ok {
			return s, false, fmt.Errorf("%w: %s", domain.ErrUnknownTask, sig.Task)
		}
		if out.Task(sig.Task) == entity.TaskPending {
			set(sig.Task, entity.TaskSkipped)
			if sig.Task == entity.TaskMIDApplied {
				set(entity.TaskMIDSkipped, entity.TaskComplete)
			}
		}
	default:
		return s, false, fmt.Errorf("onboarding: señal desconocida %d", sig.Kind)
	}

	out, stamped := t.Recompute(out, now)
	changed = changed || stamped
	if !changed {
		return s, false, nil
	}
	out.UpdatedAt = now
	return out, true, nil
}
