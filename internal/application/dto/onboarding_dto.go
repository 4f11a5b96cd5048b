package dto

import "time"

// OnboardingTaskResponse estado de una tarea de onboarding.
type OnboardingTaskResponse struct {
	Name                 string `json:"name"`
	Status               any    `json:"status"` // true | false | "skipped"
	CountsTowardProgress bool   `json:"countsTowardProgress"`
}

// OnboardingResponse estado y progreso de onboarding del usuario.
type OnboardingResponse struct {
	UserID           string                   `json:"userId"`
	Tasks            []OnboardingTaskResponse `json:"tasks"`
	Progress         int                      `json:"progress"`
	CallReminderSent bool                     `json:"callReminderSent"`
	CompletedAt      *time.Time               `json:"completedAt,omitempty"`
}
