package mid_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/mid"
)

const contactEmail = "ana.schmidt@example.de"

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fullProfile perfil con todos los campos obligatorios informados y con formato válido.
func fullProfile() *entity.OrganizationProfile {
	fte := decimal.RequireFromString("12.5")
	return &entity.OrganizationProfile{
		ID:                            "org-1",
		OwnerID:                       "user-1",
		Name:                          "Schmidt Digital",
		LegalName:                     ptr("Schmidt Digital GmbH"),
		TaxID:                         ptr("DE123456789"),
		FoundingDate:                  ptr(day(2015, time.June, 1)),
		Street:                        ptr("Königsallee 1"),
		PostalCode:                    ptr("40212"),
		City:                          ptr("Düsseldorf"),
		Country:                       ptr("Deutschland"),
		IBAN:                          ptr("DE89 3704 0044 0532 0130 00"),
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
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckCompletion
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckCompletion_PerfilNil_FaltanTodos(t *testing.T) {
	res := mid.CheckCompletion(nil, contactEmail)

	assert.False(t, res.AllFieldsFilled)
	assert.Equal(t, mid.RequiredFields(), res.MissingFields,
		"sin perfil deben faltar todos los campos del esquema, en orden")
	assert.Len(t, res.MissingFields, 20)
}

func TestCheckCompletion_PerfilCompleto(t *testing.T) {
	res := mid.CheckCompletion(fullProfile(), contactEmail)

	assert.True(t, res.AllFieldsFilled)
	assert.Empty(t, res.MissingFields)
	assert.NotNil(t, res.MissingFields, "missingFields se serializa como [] y no como null")
}

func TestCheckCompletion_CamposEnBlancoCuentanComoFaltantes(t *testing.T) {
	p := fullProfile()
	p.City = ptr("   ")
	p.IBAN = nil
	p.HasReceivedMIDDigitalSecurity = nil

	res := mid.CheckCompletion(p, contactEmail)

	assert.False(t, res.AllFieldsFilled)
	assert.Equal(t, []string{"city", "iban", "hasReceivedMIDDigitalSecurity"}, res.MissingFields,
		"los faltantes conservan el orden del esquema")
}

func TestCheckCompletion_FalseEsRespuestaValida(t *testing.T) {
	p := fullProfile()
	p.HasReceivedMIDDigitisation = ptr(false)

	res := mid.CheckCompletion(p, contactEmail)
	assert.True(t, res.AllFieldsFilled, "haber respondido 'no' cuenta como campo informado")
}

func TestCheckCompletion_EmailDeContactoVieneDelProveedor(t *testing.T) {
	p := fullProfile()
	p.Email = ptr("otro@example.de")

	res := mid.CheckCompletion(p, "")
	assert.Equal(t, []string{"email"}, res.MissingFields)
}

func TestCheckCompletion_FTECeroEstaInformado(t *testing.T) {
	p := fullProfile()
	zero := decimal.Zero
	p.FullTimeEquivalents = &zero

	assert.True(t, mid.CheckCompletion(p, contactEmail).AllFieldsFilled)
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateProfileFormats
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateProfileFormats_PerfilValido(t *testing.T) {
	assert.Empty(t, mid.ValidateProfileFormats(fullProfile(), contactEmail))
}

func TestValidateProfileFormats_ReportaCadaCampoMalFormado(t *testing.T) {
	p := fullProfile()
	p.PostalCode = ptr("4021")
	p.IBAN = ptr("DE89370400440532013001")
	p.BIC = ptr("COBA")

	errs := mid.ValidateProfileFormats(p, "sin-arroba")
	require.Len(t, errs, 4)
	assert.Equal(t, []mid.FieldError{
		{Field: "postalCode", Code: "INVALID_FORMAT"},
		{Field: "iban", Code: "INVALID_FORMAT"},
		{Field: "bic", Code: "INVALID_FORMAT"},
		{Field: "email", Code: "INVALID_FORMAT"},
	}, errs)
}

func TestValidateProfileFormats_CamposVaciosNoSeReportan(t *testing.T) {
	p := fullProfile()
	p.PostalCode = nil
	p.IBAN = ptr("")

	assert.Empty(t, mid.ValidateProfileFormats(p, ""),
		"la ausencia la informa CheckCompletion, no la validación de formato")
}

func TestValidateProfileFormats_BICEnMinusculas(t *testing.T) {
	p := fullProfile()
	p.BIC = ptr("cobadeffxxx")
	assert.Empty(t, mid.ValidateProfileFormats(p, contactEmail))
}

func TestIsValidIBAN(t *testing.T) {
	cases := []struct {
		name string
		iban string
		want bool
	}{
		{"alemán válido", "DE89370400440532013000", true},
		{"con espacios y minúsculas", "de89 3704 0044 0532 0130 00", true},
		{"dígito de control erróneo", "DE88370400440532013000", false},
		{"demasiado corto", "DE8937", false},
		{"caracteres no alfanuméricos", "DE89-3704-0044-0532-0130-00", false},
		{"país numérico", "1289370400440532013000", false},
		{"vacío", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mid.IsValidIBAN(tc.iban))
		})
	}
}
