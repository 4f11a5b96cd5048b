package mid_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mid-portal-api/internal/domain"
	"github.com/jhoicas/mid-portal-api/internal/domain/entity"
	domainmid "github.com/jhoicas/mid-portal-api/internal/domain/mid"
	"github.com/jhoicas/mid-portal-api/internal/testutil"
)

func TestEligibilityEvaluate_Elegible(t *testing.T) {
	f := newFixture(t)

	out, err := f.eligibility.Evaluate(context.Background(), f.actor, "")
	require.NoError(t, err)
	assert.True(t, out.Eligible)
	assert.Equal(t, string(domainmid.ReasonNone), out.ReasonCode)
	assert.NotNil(t, out.Cooldowns)
	assert.Equal(t, 1, f.region.calls)
}

func TestEligibilityEvaluate_FueraDeRegion(t *testing.T) {
	f := newFixture(t)
	f.region.inside = false

	out, err := f.eligibility.Evaluate(context.Background(), f.actor, "")
	require.NoError(t, err)
	assert.False(t, out.Eligible)
	assert.Equal(t, string(domainmid.ReasonNotInRegion), out.ReasonCode)
}

func TestEligibilityEvaluate_FalloDeRegionNoBloquea(t *testing.T) {
	f := newFixture(t)
	f.region.inside = false
	f.region.err = errors.New("openplz: timeout")

	out, err := f.eligibility.Evaluate(context.Background(), f.actor, "")
	require.NoError(t, err)
	assert.True(t, out.Eligible, "un fallo de infraestructura no bloquea al solicitante")
}

func TestEligibilityEvaluate_SinCodigoPostalNoConsulta(t *testing.T) {
	f := newFixture(t)
	f.updateOrg(t, func(o *entity.OrganizationProfile) { o.PostalCode = nil })

	out, err := f.eligibility.Evaluate(context.Background(), f.actor, "")
	require.NoError(t, err)
	assert.True(t, out.Eligible)
	assert.Zero(t, f.region.calls)
}

func TestEligibilityEvaluate_ProgramaRecordatorios(t *testing.T) {
	f := newFixture(t)
	approved := time.Date(time.Now().Year()-1, time.January, 31, 0, 0, 0, 0, time.UTC)
	f.updateOrg(t, func(o *entity.OrganizationProfile) {
		o.HasReceivedMIDDigitalSecurity = boolPtr(true)
		o.LastMIDDigitalSecurityApprovalDate = &approved
	})

	out, err := f.eligibility.Evaluate(context.Background(), f.actor, "Digitisation")
	require.NoError(t, err)
	assert.True(t, out.Eligible, "la carencia de otra línea no bloquea")
	require.Len(t, out.Cooldowns, 1)

	require.Len(t, f.reminders.reminders, 1)
	r := f.reminders.reminders[0]
	assert.Equal(t, entity.FundingDigitalSecurity, r.FundingType)
	assert.Equal(t, f.org.ID, r.OrganizationID)
	assert.Equal(t, time.Date(time.Now().Year()+1, time.January, 31, 0, 0, 0, 0, time.UTC), r.ReapplyDate)
}

func TestEligibilityEvaluate_LineaInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.eligibility.Evaluate(context.Background(), f.actor, "Marketing")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEligibilityEvaluate_SinOrganizacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.eligibility.Evaluate(context.Background(), testutil.Actor("user-2"), "")
	assert.ErrorIs(t, err, domain.ErrNoOrganization)
}
