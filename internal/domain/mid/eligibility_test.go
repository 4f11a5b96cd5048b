package mid_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	"github.com/jhoicas/mid-portal-api/internal/domain/mid"
)

func withDigitisation(p *entity.OrganizationProfile, approved time.Time) *entity.OrganizationProfile {
	p.HasReceivedMIDDigitisation = ptr(true)
	p.LastMIDDigitisationApprovalDate = ptr(approved)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Precedencia de reglas
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluate_PerfilElegible(t *testing.T) {
	res := mid.Evaluate(fullProfile(), mid.RegionInside, "", day(2024, time.May, 2))

	assert.True(t, res.Eligible)
	assert.Equal(t, mid.ReasonNone, res.Reason)
	assert.Nil(t, res.ReapplyDate)
	assert.Empty(t, res.Cooldowns)
}

func TestEvaluate_GranEmpresaGanaAPlantilla(t *testing.T) {
	p := fullProfile()
	p.CompanyCategory = ptr("Großunternehmen")
	p.TotalEmployees = ptr("900")

	res := mid.Evaluate(p, mid.RegionOutside, "", day(2024, time.May, 2))
	assert.False(t, res.Eligible)
	assert.Equal(t, mid.ReasonLargeOrganization, res.Reason, "la regla 1 gana siempre")
}

func TestEvaluate_CategoriaSinDistinguirMayusculas(t *testing.T) {
	p := fullProfile()
	p.CompanyCategory = ptr("  GROSSUNTERNEHMEN ")

	res := mid.Evaluate(p, mid.RegionInside, "", day(2024, time.May, 2))
	assert.Equal(t, mid.ReasonLargeOrganization, res.Reason, "ß se pliega a ss")
}

func TestEvaluate_PlantillaEnElLimite(t *testing.T) {
	p := fullProfile()
	p.TotalEmployees = ptr("249")
	assert.True(t, mid.Evaluate(p, mid.RegionInside, "", day(2024, time.May, 2)).Eligible)

	p.TotalEmployees = ptr("250")
	res := mid.Evaluate(p, mid.RegionInside, "", day(2024, time.May, 2))
	assert.Equal(t, mid.ReasonTooManyEmployees, res.Reason)
}

func TestEvaluate_PlantillaGanaARegion(t *testing.T) {
	p := fullProfile()
	p.EmployeeCount = ptr("300")

	res := mid.Evaluate(p, mid.RegionOutside, "", day(2024, time.May, 2))
	assert.Equal(t, mid.ReasonTooManyEmployees, res.Reason)
}

func TestEvaluate_FueraDeRegion(t *testing.T) {
	res := mid.Evaluate(fullProfile(), mid.RegionOutside, "", day(2024, time.May, 2))
	assert.Equal(t, mid.ReasonNotInRegion, res.Reason)
}

func TestEvaluate_RegionDesconocidaNoBloquea(t *testing.T) {
	res := mid.Evaluate(fullProfile(), mid.RegionUnknown, "", day(2024, time.May, 2))
	assert.True(t, res.Eligible)
}

func TestEvaluate_RegionGanaACarencia(t *testing.T) {
	p := withDigitisation(fullProfile(), day(2023, time.January, 1))

	res := mid.Evaluate(p, mid.RegionOutside, "", day(2024, time.May, 2))
	assert.Equal(t, mid.ReasonNotInRegion, res.Reason)
	assert.Len(t, res.Cooldowns, 1, "las carencias activas se informan aunque otra regla bloquee")
}

func TestEvaluate_PerfilNilEsElegible(t *testing.T) {
	assert.True(t, mid.Evaluate(nil, mid.RegionUnknown, "", day(2024, time.May, 2)).Eligible)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carencia de 24 meses
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluate_CarenciaActivaADoceMeses(t *testing.T) {
	p := withDigitisation(fullProfile(), day(2022, time.March, 15))

	res := mid.Evaluate(p, mid.RegionInside, entity.FundingDigitisation, day(2023, time.March, 15))
	assert.False(t, res.Eligible)
	assert.Equal(t, mid.ReasonCooldownActive, res.Reason)
	assert.Equal(t, entity.FundingDigitisation, res.FundingType)
	require.NotNil(t, res.ReapplyDate)
	assert.Equal(t, day(2024, time.March, 15), *res.ReapplyDate)
}

func TestEvaluate_CarenciaTerminadaTrasVeinticuatroMeses(t *testing.T) {
	p := withDigitisation(fullProfile(), day(2022, time.March, 15))

	res := mid.Evaluate(p, mid.RegionInside, entity.FundingDigitisation, day(2024, time.March, 16))
	assert.True(t, res.Eligible)
	assert.Empty(t, res.Cooldowns)
}

func TestEvaluate_CarenciaIgnoraElDiaDelMes(t *testing.T) {
	p := withDigitisation(fullProfile(), day(2022, time.March, 30))

	res := mid.Evaluate(p, mid.RegionInside, entity.FundingDigitisation, day(2024, time.March, 1))
	assert.True(t, res.Eligible, "la carencia del día 30 termina el día 1 del mismo mes")

	res = mid.Evaluate(p, mid.RegionInside, entity.FundingDigitisation, day(2024, time.February, 29))
	assert.Equal(t, mid.ReasonCooldownActive, res.Reason)
}

func TestEvaluate_CarenciaDeOtraLineaNoBloquea(t *testing.T) {
	p := withDigitisation(fullProfile(), day(2023, time.June, 1))

	res := mid.Evaluate(p, mid.RegionInside, entity.FundingDigitalSecurity, day(2024, time.May, 2))
	assert.True(t, res.Eligible)
	require.Len(t, res.Cooldowns, 1)
	assert.Equal(t, entity.FundingDigitisation, res.Cooldowns[0].FundingType)
}

func TestEvaluate_SinLineaPedidaBloqueaCualquierCarencia(t *testing.T) {
	p := fullProfile()
	p.HasReceivedMIDDigitalSecurity = ptr(true)
	p.LastMIDDigitalSecurityApprovalDate = ptr(day(2023, time.June, 1))

	res := mid.Evaluate(p, mid.RegionInside, "", day(2024, time.May, 2))
	assert.Equal(t, mid.ReasonCooldownActive, res.Reason)
	assert.Equal(t, entity.FundingDigitalSecurity, res.FundingType)
}

func TestEvaluate_RecibidaSinFechaNoBloquea(t *testing.T) {
	p := fullProfile()
	p.HasReceivedMIDDigitisation = ptr(true)

	assert.True(t, mid.Evaluate(p, mid.RegionInside, "", day(2024, time.May, 2)).Eligible)
}

func TestEvaluate_FechaSinHaberRecibidoNoBloquea(t *testing.T) {
	p := fullProfile()
	p.LastMIDDigitisationApprovalDate = ptr(day(2024, time.January, 1))

	assert.True(t, mid.Evaluate(p, mid.RegionInside, "", day(2024, time.May, 2)).Eligible)
}

func TestPolicy_MesesConfigurables(t *testing.T) {
	pol := mid.DefaultPolicy()
	pol.CooldownMonths = 12
	p := withDigitisation(fullProfile(), day(2023, time.March, 15))

	assert.True(t, pol.Evaluate(p, mid.RegionInside, "", day(2024, time.March, 1)).Eligible)
}

func TestAddCalendarMonths(t *testing.T) {
	assert.Equal(t, day(2026, time.January, 31), mid.AddCalendarMonths(day(2024, time.January, 31), 24))
	assert.Equal(t, day(2024, time.March, 15), mid.AddCalendarMonths(day(2022, time.March, 15), 24))
}

func TestEvaluate_CarenciaSeCuentaEnHoraAlemana(t *testing.T) {
	p := withDigitisation(fullProfile(), day(2022, time.March, 15))
	berlin, err := time.LoadLocation(mid.BusinessTimezone)
	require.NoError(t, err)

	// 2024-03-01 00:30 en Berlín sigue siendo 2024-02-29 en UTC.
	justAfter := time.Date(2024, time.March, 1, 0, 30, 0, 0, berlin)
	res := mid.Evaluate(p, mid.RegionInside, "", justAfter)
	assert.True(t, res.Eligible, "24 meses de calendario cumplidos en Alemania")
	assert.Empty(t, res.Cooldowns)

	justBefore := time.Date(2024, time.February, 29, 23, 30, 0, 0, berlin)
	res = mid.Evaluate(p, mid.RegionInside, "", justBefore.UTC())
	assert.False(t, res.Eligible, "el instante en UTC se lleva a Berlín antes de contar")
	assert.Equal(t, mid.ReasonCooldownActive, res.Reason)
}

func TestPolicy_LocationConfigurable(t *testing.T) {
	p := withDigitisation(fullProfile(), day(2022, time.March, 15))
	pol := mid.DefaultPolicy()
	pol.Location = time.UTC

	now := time.Date(2024, time.March, 1, 0, 30, 0, 0, time.FixedZone("CET", 3600))
	res := pol.Evaluate(p, mid.RegionInside, "", now)
	assert.False(t, res.Eligible, "en UTC todavía es febrero")
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 12, mid.MonthsBetween(day(2022, time.March, 15), day(2023, time.March, 1)))
	assert.Equal(t, 24, mid.MonthsBetween(day(2022, time.March, 30), day(2024, time.March, 1)))
	assert.Equal(t, -1, mid.MonthsBetween(day(2024, time.April, 1), day(2024, time.March, 31)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Plantilla
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluate_PlantillaDesbordadaExcluye(t *testing.T) {
	p := fullProfile()
	p.EmployeeCount = ptr("123456789012345678901234")

	res := mid.Evaluate(p, mid.RegionInside, "", day(2024, time.May, 2))
	assert.False(t, res.Eligible)
	assert.Equal(t, mid.ReasonTooManyEmployees, res.Reason)
}

func TestParseHeadcount(t *testing.T) {
	cases := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"120", 120, true},
		{"ca. 45 MA", 45, true},
		{" 7 ", 7, true},
		{"10-49", 10, true},
		{"", 0, false},
		{"keine Angabe", 0, false},
		{"99999999999999999999", math.MaxInt, true},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			n, ok := mid.ParseHeadcount(tc.raw)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, n)
		})
	}
}

func TestHeadcount_CampoDedicadoPrimero(t *testing.T) {
	p := fullProfile()
	p.EmployeeCount = ptr("300")
	p.TotalEmployees = ptr("10")

	n, ok := mid.Headcount(p)
	require.True(t, ok)
	assert.Equal(t, 300, n)

	p.EmployeeCount = ptr("k. A.")
	n, ok = mid.Headcount(p)
	require.True(t, ok)
	assert.Equal(t, 10, n, "si el campo dedicado no es numérico se usa el genérico")
}

func TestHeadcount_NoNumericoNoBloquea(t *testing.T) {
	p := fullProfile()
	p.TotalEmployees = ptr("viele")

	_, ok := mid.Headcount(p)
	assert.False(t, ok)
	assert.True(t, mid.Evaluate(p, mid.RegionInside, "", day(2024, time.May, 2)).Eligible)
}
