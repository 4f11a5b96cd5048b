package dto

import "time"

// CreateInviteRequest invitación de un compañero.
type CreateInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// InviteResponse invitación creada.
type InviteResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Email          string    `json:"email"`
	InvitedBy      string    `json:"invitedBy"`
	CreatedAt      time.Time `json:"createdAt"`
}

// InviteListResponse invitaciones de la organización.
type InviteListResponse struct {
	Items []InviteResponse `json:"items"`
}
