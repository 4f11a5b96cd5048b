package mid

import (
	"strings"
	"time"
	_ "time/tzdata" // Europe/Berlin disponible aunque la imagen no traiga zoneinfo

	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"golang.org/x/text/cases"
)

// Reason motivo de inelegibilidad. Solo se informa uno a la vez.
type Reason string

const (
	ReasonNone              Reason = "none"
	ReasonLargeOrganization Reason = "large-organization"
	ReasonTooManyEmployees  Reason = "too-many-employees"
	ReasonNotInRegion       Reason = "not-in-region"
	ReasonCooldownActive    Reason = "cooldown-active"
)

// RegionStatus resultado de la consulta de región ya resuelto por la capa de aplicación.
type RegionStatus int

const (
	RegionUnknown RegionStatus = iota // sin código postal o consulta fallida: no bloquea
	RegionInside
	RegionOutside
)

// Cooldown periodo de carencia activo para una línea de financiación.
type Cooldown struct {
	FundingType entity.FundingType `json:"fundingType"`
	ApprovedAt  time.Time          `json:"approvedAt"`
	ReapplyDate time.Time          `json:"reapplyDate"`
}

// EligibilityResult resultado de la evaluación. No se persiste.
// FundingType y ReapplyDate solo se informan con ReasonCooldownActive.
// Cooldowns lista todas las carencias activas, bloqueen o no la solicitud pedida.
type EligibilityResult struct {
	Eligible    bool
	Reason      Reason
	FundingType entity.FundingType
	ReapplyDate *time.Time
	Cooldowns   []Cooldown
}

// BusinessTimezone calendario en el que se cuentan los meses de carencia.
const BusinessTimezone = "Europe/Berlin"

// Policy parámetros del programa.
type Policy struct {
	CooldownMonths          int
	MaxEmployees            int            // plantilla >= MaxEmployees excluye
	LargeEnterpriseCategory string         // categoría que excluye
	Location                *time.Location // nil = BusinessTimezone
}

// DefaultPolicy reglas vigentes del programa MID.
func DefaultPolicy() Policy {
	return Policy{
		CooldownMonths:          24,
		MaxEmployees:            250,
		LargeEnterpriseCategory: "Großunternehmen",
		Location:                businessLocation(),
	}
}

func businessLocation() *time.Location {
	loc, err := time.LoadLocation(BusinessTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (pol Policy) location() *time.Location {
	if pol.Location != nil {
		return pol.Location
	}
	return businessLocation()
}

// sameCategory compara con case folding Unicode (ignora mayúsculas y espacios externos).
// cases.Caser tiene estado: se crea uno por llamada.
func sameCategory(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

// Evaluate aplica DefaultPolicy.
func Evaluate(profile *entity.OrganizationProfile, region RegionStatus, requested entity.FundingType, now time.Time) EligibilityResult {
	return DefaultPolicy().Evaluate(profile, region, requested, now)
}

// Evaluate decide si la organización puede enviar una solicitud. Orden fijo, gana la primera regla:
//  1. categoría gran empresa
//  2. plantilla >= MaxEmployees
//  3. código postal fuera de la región elegible
//  4. carencia activa de la línea pedida (o de cualquiera si requested está vacío)
func (pol Policy) Evaluate(profile *entity.OrganizationProfile, region RegionStatus, requested entity.FundingType, now time.Time) EligibilityResult {
	res := EligibilityResult{Eligible: true, Reason: ReasonNone}
	if profile == nil {
		return res
	}
	res.Cooldowns = pol.ActiveCooldowns(profile, now)

	if profile.CompanyCategory != nil && pol.LargeEnterpriseCategory != "" &&
		sameCategory(*profile.CompanyCategory, pol.LargeEnterpriseCategory) {
		return blocked(res, ReasonLargeOrganization)
	}
	if n, ok := Headcount(profile); ok && n >= pol.MaxEmployees {
		return blocked(res, ReasonTooManyEmployees)
	}
	if region == RegionOutside {
		return blocked(res, ReasonNotInRegion)
	}
	for _, cd := range res.Cooldowns {
		if requested != "" && cd.FundingType != requested {
			continue
		}
		res = blocked(res, ReasonCooldownActive)
		res.FundingType = cd.FundingType
		reapply := cd.ReapplyDate
		res.ReapplyDate = &reapply
		return res
	}
	return res
}

func blocked(res EligibilityResult, reason Reason) EligibilityResult {
	res.Eligible = false
	res.Reason = reason
	return res
}

// ActiveCooldowns carencias activas en now, en el orden de entity.FundingTypes.
// Sin fecha de aprobación no se puede calcular la carencia y no bloquea.
// now se lleva al calendario de Policy.Location; las fechas de aprobación son
// fechas de calendario y se leen tal cual.
func (pol Policy) ActiveCooldowns(profile *entity.OrganizationProfile, now time.Time) []Cooldown {
	now = now.In(pol.location())
	var out []Cooldown
	for _, ft := range entity.FundingTypes {
		received, approvedAt := profile.FundingHistory(ft)
		if !received || approvedAt == nil || approvedAt.IsZero() {
			continue
		}
		if MonthsBetween(*approvedAt, now) >= pol.CooldownMonths {
			continue
		}
		out = append(out, Cooldown{
			FundingType: ft,
			ApprovedAt:  *approvedAt,
			ReapplyDate: AddCalendarMonths(*approvedAt, pol.CooldownMonths),
		})
	}
	return out
}

// MonthsBetween diferencia en meses completos ignorando el día del mes:
// (añoTo-añoFrom)*12 + (mesTo-mesFrom). Una carencia iniciada el día 30 termina
// el día 1 del mismo mes dos años después; es la regla del programa, no un redondeo.
// Año y mes se leen en la zona de cada valor: el llamador los alinea antes.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// AddCalendarMonths avanza t en meses de calendario (no en días).
func AddCalendarMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}
