package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundingType identifica la línea de financiación MID.
type FundingType string

const (
	FundingDigitisation    FundingType = "Digitisation"
	FundingDigitalSecurity FundingType = "DigitalSecurity"
)

// FundingTypes en el orden en que se evalúan los periodos de carencia.
var FundingTypes = []FundingType{FundingDigitisation, FundingDigitalSecurity}

// Valid informa si ft es una línea conocida.
func (ft FundingType) Valid() bool {
	return ft == FundingDigitisation || ft == FundingDigitalSecurity
}

// Estados de una solicitud MID.
const (
	SubmissionPending   = "pending"
	SubmissionSubmitted = "submitted"
)

// SubmissionData copia de los datos del perfil en el momento de la solicitud.
// Es el documento que se persiste como JSON; no contiene la clave de identidad.
type SubmissionData struct {
	LegalName    string `json:"legalName"`
	TaxID        string `json:"taxId"`
	FoundingDate string `json:"foundingDate"` // YYYY-MM-DD

	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Country    string `json:"country"`

	IBAN          string `json:"iban"`
	BIC           string `json:"bic"`
	BankName      string `json:"bankName"`
	AccountHolder string `json:"accountHolder"`

	Industry            string           `json:"industry"`
	CompanyCategory     string           `json:"companyCategory"`
	TotalEmployees      string           `json:"totalEmployees"`
	EmployeeCount       string           `json:"employeeCount"`
	FullTimeEquivalents *decimal.Decimal `json:"fullTimeEquivalents,omitempty"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`

	FundingType FundingType `json:"fundingType"`
}

// DigitalSignature aceptación de la firma digital en el cliente.
type DigitalSignature struct {
	Accepted          bool       `json:"accepted"`
	AcceptedAt        *time.Time `json:"acceptedAt,omitempty"`
	ClientFingerprint string     `json:"clientFingerprint,omitempty"`
}

// ChangeHistoryEntry registro de auditoría de un campo rastreado.
type ChangeHistoryEntry struct {
	Field      string    `json:"field"`
	FieldLabel string    `json:"fieldLabel"`
	OldValue   string    `json:"oldValue"`
	NewValue   string    `json:"newValue"`
	Timestamp  time.Time `json:"timestamp"`
	ChangedBy  string    `json:"changedBy"`
}

// MIDSubmission solicitud de subvención MID.
type MIDSubmission struct {
	ID               string
	OwnerID          string
	OrganizationID   string
	Data             SubmissionData
	Status           string // ver constantes Submission*
	SubmittedAt      *time.Time
	SignatureHash    string
	DigitalSignature DigitalSignature
	ChangeHistory    []ChangeHistoryEntry
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
