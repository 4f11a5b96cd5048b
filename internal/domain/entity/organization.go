package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrganizationProfile es el perfil de la organización que solicita la subvención MID.
// Los campos opcionales son punteros: nil significa "no informado", distinto de "".
// Los conteos de empleados se guardan tal cual llegan (texto libre o número) y solo
// se interpretan con mid.ParseHeadcount.
type OrganizationProfile struct {
	ID      string
	OwnerID string
	Name    string

	// Identidad legal
	LegalName    *string
	TaxID        *string
	FoundingDate *time.Time

	// Dirección
	Street     *string
	PostalCode *string
	City       *string
	Country    *string

	// Datos bancarios
	IBAN          *string
	BIC           *string
	BankName      *string
	AccountHolder *string

	// Clasificación
	Industry            *string
	CompanyCategory     *string
	TotalEmployees      *string // campo genérico "employees"
	EmployeeCount       *string // campo dedicado de plantilla
	FullTimeEquivalents *decimal.Decimal

	// Contacto
	FirstName *string
	LastName  *string
	Email     *string

	// Historial de financiación MID
	HasReceivedMIDDigitisation         *bool
	LastMIDDigitisationApprovalDate    *time.Time
	HasReceivedMIDDigitalSecurity      *bool
	LastMIDDigitalSecurityApprovalDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FundingHistory devuelve si la organización recibió el tipo de financiación y la
// fecha de la última aprobación (nil si no se conoce).
func (p *OrganizationProfile) FundingHistory(ft FundingType) (received bool, approvedAt *time.Time) {
	if p == nil {
		return false, nil
	}
	switch ft {
	case FundingDigitisation:
		return p.HasReceivedMIDDigitisation != nil && *p.HasReceivedMIDDigitisation, p.LastMIDDigitisationApprovalDate
	case FundingDigitalSecurity:
		return p.HasReceivedMIDDigitalSecurity != nil && *p.HasReceivedMIDDigitalSecurity, p.LastMIDDigitalSecurityApprovalDate
	}
	return false, nil
}

// Invite invitación de un compañero a la organización.
type Invite struct {
	ID             string
	OrganizationID string
	Email          string
	InvitedBy      string
	CreatedAt      time.Time
}
