package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrganizationRequest entrada para crear la organización del usuario.
type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// UpdateOrganizationRequest actualización parcial del perfil. Las fechas van como YYYY-MM-DD.
// Un campo ausente no se modifica; "" lo deja vacío.
type UpdateOrganizationRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`

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
	Email     *string `json:"email" validate:"omitempty,email"`

	HasReceivedMIDDigitisation         *bool   `json:"hasReceivedMIDDigitisation"`
	LastMIDDigitisationApprovalDate    *string `json:"lastMIDDigitisationApprovalDate" validate:"omitempty,datetime=2006-01-02"`
	HasReceivedMIDDigitalSecurity      *bool   `json:"hasReceivedMIDDigitalSecurity"`
	LastMIDDigitalSecurityApprovalDate *string `json:"lastMIDDigitalSecurityApprovalDate" validate:"omitempty,datetime=2006-01-02"`
}

// OrganizationResponse perfil de la organización.
type OrganizationResponse struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Name    string `json:"name"`

	LegalName    *string `json:"legalName"`
	TaxID        *string `json:"taxId"`
	FoundingDate *string `json:"foundingDate"`

	Street     *string `json:"street"`
	PostalCode *string `json:"postalCode"`
	City       *string `json:"city"`
	Country    *string `json:"country"`

	IBAN          *string `json:"iban"`
	BIC           *string `json:"bic"`
	BankName      *string `json:"bankName"`
	AccountHolder *string `json:"accountHolder"`

	Industry            *string          `json:"industry"`
	CompanyCategory     *string          `json:"companyCategory"`
	TotalEmployees      *string          `json:"totalEmployees"`
	EmployeeCount       *string          `json:"employeeCount"`
	FullTimeEquivalents *decimal.Decimal `json:"fullTimeEquivalents"`

	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`

	HasReceivedMIDDigitisation         *bool   `json:"hasReceivedMIDDigitisation"`
	LastMIDDigitisationApprovalDate    *string `json:"lastMIDDigitisationApprovalDate"`
	HasReceivedMIDDigitalSecurity      *bool   `json:"hasReceivedMIDDigitalSecurity"`
	LastMIDDigitalSecurityApprovalDate *string `json:"lastMIDDigitalSecurityApprovalDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FieldErrorResponse error de formato de un campo.
type FieldErrorResponse struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

// CompletionResponse campos obligatorios faltantes y errores de formato del perfil.
type CompletionResponse struct {
	AllFieldsFilled bool                 `json:"allFieldsFilled"`
	MissingFields   []string             `json:"missingFields"`
	FormatErrors    []FieldErrorResponse `json:"formatErrors"`
}
