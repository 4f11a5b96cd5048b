package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mid-portal-api/internal/application/dto"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

func ptr[T any](v T) *T { return &v }

// Actor usuario autenticado con email verificado.
func Actor(userID string) dto.Actor {
	return dto.Actor{UserID: userID, Email: "ana.schmidt@example.de", EmailVerified: true}
}

// CompleteProfile organización con todos los campos obligatorios, en Düsseldorf (NRW)
// y sin financiación MID previa.
func CompleteProfile(ownerID string) *entity.OrganizationProfile {
	now := time.Now()
	fte := decimal.RequireFromString("12.5")
	founded := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	return &entity.OrganizationProfile{
		ID:                            uuid.New().String(),
		OwnerID:                       ownerID,
		Name:                          "Schmidt Digital",
		LegalName:                     ptr("Schmidt Digital GmbH"),
		TaxID:                         ptr("DE123456789"),
		FoundingDate:                  &founded,
		Street:                        ptr("Königsallee 1"),
		PostalCode:                    ptr("40212"),
		City:                          ptr("Düsseldorf"),
		Country:                       ptr("Deutschland"),
		IBAN:                          ptr("DE89370400440532013000"),
		BIC:                           ptr("COBADEFFXXX"),
		BankName:                      ptr("Commerzbank"),
		AccountHolder:                 ptr("Schmidt Digital GmbH"),
		Industry:                      ptr("IT"),
		CompanyCategory:               ptr("Kleinunternehmen"),
		TotalEmployees:                ptr("14"),
		FullTimeEquivalents:           &fte,
		FirstName:                     ptr("Ana"),
		LastName:                      ptr("Schmidt"),
		HasReceivedMIDDigitisation:    ptr(false),
		HasReceivedMIDDigitalSecurity: ptr(false),
		CreatedAt:                     now,
		UpdatedAt:                     now,
	}
}

// EmptyProfile organización recién creada: sólo nombre y dueño.
func EmptyProfile(ownerID string) *entity.OrganizationProfile {
	now := time.Now()
	return &entity.OrganizationProfile{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      "Neue Firma",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
