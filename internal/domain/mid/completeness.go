// Package mid contiene las reglas de dominio de la subvención MID: campos obligatorios,
// validación de formato, elegibilidad con periodos de carencia e historial de cambios.
// Todo lo de este paquete es puro: no hace I/O ni lee el reloj.
package mid

import (
	"strings"
	"time"

	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

// CompletionResult resultado de la comprobación de campos obligatorios.
type CompletionResult struct {
	AllFieldsFilled bool     `json:"allFieldsFilled"`
	MissingFields   []string `json:"missingFields"`
}

type requiredField struct {
	key     string
	present func(p *entity.OrganizationProfile, contactEmail string) bool
}

func str(get func(p *entity.OrganizationProfile) *string) func(*entity.OrganizationProfile, string) bool {
	return func(p *entity.OrganizationProfile, _ string) bool {
		v := get(p)
		return v != nil && strings.TrimSpace(*v) != ""
	}
}

func date(get func(p *entity.OrganizationProfile) *time.Time) func(*entity.OrganizationProfile, string) bool {
	return func(p *entity.OrganizationProfile, _ string) bool {
		v := get(p)
		return v != nil && !v.IsZero()
	}
}

func flag(get func(p *entity.OrganizationProfile) *bool) func(*entity.OrganizationProfile, string) bool {
	return func(p *entity.OrganizationProfile, _ string) bool {
		return get(p) != nil
	}
}

// requiredFields esquema fijo y ordenado. El orden es el de la checklist del formulario.
var requiredFields = []requiredField{
	{"legalName", str(func(p *entity.OrganizationProfile) *string { return p.LegalName })},
	{"taxId", str(func(p *entity.OrganizationProfile) *string { return p.TaxID })},
	{"foundingDate", date(func(p *entity.OrganizationProfile) *time.Time { return p.FoundingDate })},
	{"street", str(func(p *entity.OrganizationProfile) *string { return p.Street })},
	{"postalCode", str(func(p *entity.OrganizationProfile) *string { return p.PostalCode })},
	{"city", str(func(p *entity.OrganizationProfile) *string { return p.City })},
	{"country", str(func(p *entity.OrganizationProfile) *string { return p.Country })},
	{"iban", str(func(p *entity.OrganizationProfile) *string { return p.IBAN })},
	{"bic", str(func(p *entity.OrganizationProfile) *string { return p.BIC })},
	{"bankName", str(func(p *entity.OrganizationProfile) *string { return p.BankName })},
	{"accountHolder", str(func(p *entity.OrganizationProfile) *string { return p.AccountHolder })},
	{"industry", str(func(p *entity.OrganizationProfile) *string { return p.Industry })},
	{"companyCategory", str(func(p *entity.OrganizationProfile) *string { return p.CompanyCategory })},
	{"totalEmployees", str(func(p *entity.OrganizationProfile) *string { return p.TotalEmployees })},
	{"fullTimeEquivalents", func(p *entity.OrganizationProfile, _ string) bool { return p.FullTimeEquivalents != nil }},
	{"firstName", str(func(p *entity.OrganizationProfile) *string { return p.FirstName })},
	{"lastName", str(func(p *entity.OrganizationProfile) *string { return p.LastName })},
	// El email de contacto viene del proveedor de identidad, no del perfil.
	{"email", func(_ *entity.OrganizationProfile, email string) bool { return strings.TrimSpace(email) != "" }},
	{"hasReceivedMIDDigitisation", flag(func(p *entity.OrganizationProfile) *bool { return p.HasReceivedMIDDigitisation })},
	{"hasReceivedMIDDigitalSecurity", flag(func(p *entity.OrganizationProfile) *bool { return p.HasReceivedMIDDigitalSecurity })},
}

// RequiredFields devuelve las claves del esquema en su orden declarado.
func RequiredFields() []string {
	out := make([]string, len(requiredFields))
	for i, f := range requiredFields {
		out[i] = f.key
	}
	return out
}

// CheckCompletion informa qué campos obligatorios faltan. Solo comprueba presencia;
// el formato se valida en ValidateProfileFormats. Con perfil nil faltan todos.
func CheckCompletion(profile *entity.OrganizationProfile, contactEmail string) CompletionResult {
	if profile == nil {
		return CompletionResult{AllFieldsFilled: false, MissingFields: RequiredFields()}
	}
	missing := make([]string, 0)
	for _, f := range requiredFields {
		if !f.present(profile, contactEmail) {
			missing = append(missing, f.key)
		}
	}
	return CompletionResult{AllFieldsFilled: len(missing) == 0, MissingFields: missing}
}
