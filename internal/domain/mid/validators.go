package mid

import (
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
)

// FieldError error de formato de un campo. Se devuelven en lista, nunca como error.
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator instancia compartida con las reglas propias registradas ("iban").
// La usan tanto las validaciones de dominio como los DTO HTTP.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Los errores usan el nombre JSON del campo (legalName, iban...).
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("iban", func(fl validator.FieldLevel) bool {
			return IsValidIBAN(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// IsValidIBAN comprueba longitud, caracteres y dígito de control ISO 13616 (mod 97).
func IsValidIBAN(raw string) bool {
	iban := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if len(iban) < 15 || len(iban) > 34 {
		return false
	}
	if iban[0] < 'A' || iban[0] > 'Z' || iban[1] < 'A' || iban[1] > 'Z' {
		return false
	}
	rearranged := iban[4:] + iban[:4]
	var digits strings.Builder
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			digits.WriteString(strconv.Itoa(int(r-'A') + 10))
		default:
			return false
		}
	}
	n, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Int64() == 1
}

type formatRule struct {
	field string
	tag   string
	value func(p *entity.OrganizationProfile, email string) *string
}

var formatRules = []formatRule{
	{"postalCode", "postcode_iso3166_alpha2=DE", func(p *entity.OrganizationProfile, _ string) *string { return p.PostalCode }},
	{"iban", "iban", func(p *entity.OrganizationProfile, _ string) *string { return p.IBAN }},
	{"bic", "bic", func(p *entity.OrganizationProfile, _ string) *string { return p.BIC }},
	{"email", "email", func(_ *entity.OrganizationProfile, email string) *string { return &email }},
}

// ValidateProfileFormats valida el formato de los campos presentes. Los campos vacíos
// no se reportan aquí: eso es cosa de CheckCompletion.
func ValidateProfileFormats(profile *entity.OrganizationProfile, contactEmail string) []FieldError {
	if profile == nil {
		return nil
	}
	v := Validator()
	var out []FieldError
	for _, r := range formatRules {
		val := r.value(profile, contactEmail)
		if val == nil || strings.TrimSpace(*val) == "" {
			continue
		}
		normalized := strings.TrimSpace(*val)
		if r.field == "bic" {
			normalized = strings.ToUpper(normalized)
		}
		if err := v.Var(normalized, r.tag); err != nil {
			out = append(out, FieldError{Field: r.field, Code: "INVALID_FORMAT"})
		}
	}
	return out
}
