package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmissionFields campos editables de una solicitud. Ausente = sin cambios.
// No existe campo "id": la identidad de la solicitud la fija el almacén.
type SubmissionFields struct {
	LegalName    *string `json:"legalName" validate:"omitempty,max=200"`
	TaxID        *string `json:"taxId" validate:"omitempty,max=40"`
	FoundingDate *string `json:"foundingDate" validate:"omitempty,datetime=2006-01-02"`

	Street     *string `json:"street" validate:"omitempty,max=200"`
	PostalCode *string `json:"postalCode" validate:"omitempty,postcode_iso3166_alpha2=DE"`
	City       *string `json:"city" validate:"omitempty,max=120"`
	Country    *string `json:"country" validate:"omitempty,max=80"`

	IBAN          *string `json:"iban" validate:"omitempty,iban"`
	BIC           *string `json:"bic" validate:"omitempty,bic"`
	BankName      *string `json:"bankName" validate:"omitempty,max=120"`
	AccountHolder *string `json:"accountHolder" validate:"omitempty,max=200"`

	Industry            *string          `json:"industry" validate:"omitempty,max=120"`
	CompanyCategory     *string          `json:"companyCategory" validate:"omitempty,max=80"`
	TotalEmployees      *string          `json:"totalEmployees" validate:"omitempty,max=40"`
	EmployeeCount       *string          `json:"employeeCount" validate:"omitempty,max=40"`
	FullTimeEquivalents *decimal.Decimal `json:"fullTimeEquivalents"`

	FirstName *string `json:"firstName" validate:"omitempty,max=120"`
	LastName  *string `json:"lastName" validate:"omitempty,max=120"`

	FundingType *string `json:"fundingType" validate:"omitempty,oneof=Digitisation DigitalSecurity"`
}

// CreateSubmissionRequest crea una solicitud a partir del perfil actual.
// Los campos informados sobrescriben la copia del perfil.
type CreateSubmissionRequest struct {
	SubmissionFields
	FundingType string `json:"fundingType" validate:"required,oneof=Digitisation DigitalSecurity"`
}

// UpdateSubmissionRequest edición parcial de una solicitud.
type UpdateSubmissionRequest struct {
	SubmissionFields
}

// SubmitRequest envío final con aceptación de la firma digital.
type SubmitRequest struct {
	AcceptTerms       bool   `json:"acceptTerms"`
	ClientFingerprint string `json:"clientFingerprint" validate:"max=512"`
}

// ChangeHistoryEntryResponse entrada del historial de cambios.
type ChangeHistoryEntryResponse struct {
	Field      string    `json:"field"`
	FieldLabel string    `json:"fieldLabel"`
	OldValue   string    `json:"oldValue"`
	NewValue   string    `json:"newValue"`
	Timestamp  time.Time `json:"timestamp"`
	ChangedBy  string    `json:"changedBy"`
}

// DigitalSignatureResponse estado de la firma digital.
type DigitalSignatureResponse struct {
	Accepted          bool       `json:"accepted"`
	AcceptedAt        *time.Time `json:"acceptedAt,omitempty"`
	ClientFingerprint string     `json:"clientFingerprint,omitempty"`
}

// SubmissionResponse solicitud MID.
type SubmissionResponse struct {
	ID               string                       `json:"id"`
	OwnerID          string                       `json:"ownerId"`
	OrganizationID   string                       `json:"organizationId"`
	Data             any                          `json:"data"`
	Status           string                       `json:"status"`
	SubmittedAt      *time.Time                   `json:"submittedAt,omitempty"`
	SignatureHash    string                       `json:"signatureHash,omitempty"`
	DigitalSignature DigitalSignatureResponse     `json:"digitalSignature"`
	ChangeHistory    []ChangeHistoryEntryResponse `json:"changeHistory"`
	CreatedAt        time.Time                    `json:"createdAt"`
	UpdatedAt        time.Time                    `json:"updatedAt"`
}

// SubmissionListResponse solicitudes del usuario.
type SubmissionListResponse struct {
	Items []SubmissionResponse `json:"items"`
}

// CooldownResponse carencia activa de una línea.
type CooldownResponse struct {
	FundingType string    `json:"fundingType"`
	ApprovedAt  time.Time `json:"approvedAt"`
	ReapplyDate time.Time `json:"reapplyDate"`
}

// EligibilityResponse resultado de la evaluación de elegibilidad.
type EligibilityResponse struct {
	Eligible    bool               `json:"eligible"`
	ReasonCode  string             `json:"reasonCode"`
	FundingType string             `json:"fundingType,omitempty"`
	ReapplyDate *time.Time         `json:"reapplyDate,omitempty"`
	Cooldowns   []CooldownResponse `json:"cooldowns"`
}

// SubmitResponse resultado del envío. Si Submitted es false, Eligibility explica el motivo.
type SubmitResponse struct {
	Submitted   bool                `json:"submitted"`
	Eligibility EligibilityResponse `json:"eligibility"`
	Submission  *SubmissionResponse `json:"submission,omitempty"`
}
