package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// TaskName nombre de una tarea de onboarding.
type TaskName string

// Tareas de onboarding conocidas.
const (
	TaskEmailVerified        TaskName = "emailVerified"
	TaskOrganizationCreated  TaskName = "organizationCreated"
	TaskMIDApplied           TaskName = "midApplied"
	TaskMIDSkipped           TaskName = "midSkipped"
	TaskBookingCallCompleted TaskName = "bookingCallCompleted"
	TaskCoworkersInvited     TaskName = "coworkersInvited"
	TaskWalkthroughCompleted TaskName = "walkthroughCompleted"
)

// TaskStatus estado de una tarea: pendiente, completada u omitida.
// En JSON se representa como false, true o "skipped".
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskComplete
	TaskSkipped
)

// Done informa si la tarea cuenta como terminada (completada u omitida).
func (s TaskStatus) Done() bool {
	return s == TaskComplete || s == TaskSkipped
}

func (s TaskStatus) String() string {
	switch s {
	case TaskComplete:
		return "true"
	case TaskSkipped:
		return "skipped"
	default:
		return "false"
	}
}

// MarshalJSON emite true, false o "skipped".
func (s TaskStatus) MarshalJSON() ([]byte, error) {
	switch s {
	case TaskComplete:
		return []byte("true"), nil
	case TaskSkipped:
		return []byte(`"skipped"`), nil
	default:
		return []byte("false"), nil
	}
}

// UnmarshalJSON acepta true, false, null y "skipped".
func (s *TaskStatus) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*s = TaskPending
	case bool:
		if v {
			*s = TaskComplete
		} else {
			*s = TaskPending
		}
	case string:
		switch v {
		case "skipped":
			*s = TaskSkipped
		case "true":
			*s = TaskComplete
		case "false", "":
			*s = TaskPending
		default:
			return fmt.Errorf("estado de tarea inválido: %q", v)
		}
	default:
		return fmt.Errorf("estado de tarea inválido: %s", string(b))
	}
	return nil
}

// OnboardingState progreso de onboarding de un usuario.
// CompletedAt se fija una sola vez y nunca se borra.
type OnboardingState struct {
	UserID           string
	Tasks            map[TaskName]TaskStatus
	CallReminderSent bool
	CompletedAt      *time.Time
	UpdatedAt        time.Time
}

// NewOnboardingState estado inicial con todas las tareas pendientes.
func NewOnboardingState(userID string) OnboardingState {
	return OnboardingState{UserID: userID, Tasks: map[TaskName]TaskStatus{}}
}

// Task devuelve el estado de la tarea (pendiente si no existe).
func (s OnboardingState) Task(name TaskName) TaskStatus {
	return s.Tasks[name]
}

// Clone copia profunda para que las transiciones no muten el estado original.
func (s OnboardingState) Clone() OnboardingState {
	out := s
	out.Tasks = make(map[TaskName]TaskStatus, len(s.Tasks))
	for k, v := range s.Tasks {
		out.Tasks[k] = v
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
