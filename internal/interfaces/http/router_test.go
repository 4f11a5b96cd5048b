package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mid-portal-api/internal/application/mid"
	"github.com/jhoicas/mid-portal-api/internal/application/onboarding"
	"github.com/jhoicas/mid-portal-api/internal/application/usecase"
	domainmid "github.com/jhoicas/mid-portal-api/internal/domain/mid"
	apphttp "github.com/jhoicas/mid-portal-api/internal/interfaces/http"
	"github.com/jhoicas/mid-portal-api/internal/testutil"
	"github.com/jhoicas/mid-portal-api/pkg/logger"
	pkgjwt "github.com/jhoicas/mid-portal-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app  *fiber.App
	orgs *testutil.OrganizationRepo
	auth string
}

// newAPI monta el router completo sobre repositorios en memoria, sin región ni recordatorios.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	log := logger.Nop()
	orgs := testutil.NewOrganizationRepo()
	subs := testutil.NewSubmissionRepo()
	states := testutil.NewOnboardingRepo()
	invites := testutil.NewInviteRepo()

	onboardingUC := onboarding.NewUseCase(states, orgs, subs, invites, nil, log)
	eligibilityUC := mid.NewEligibilityUseCase(orgs, nil, nil, domainmid.DefaultPolicy(), log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		OrganizationUC: usecase.NewOrganizationUseCase(orgs, onboardingUC, log),
		InviteUC:       usecase.NewInviteUseCase(invites, orgs, onboardingUC, log),
		EligibilityUC:  eligibilityUC,
		SubmissionUC:   mid.NewSubmissionUseCase(subs, orgs, eligibilityUC, onboardingUC, log),
		OnboardingUC:   onboardingUC,
		JWTSecret:      testJWTSecret,
		JWTIssuer:      testIssuer,
	})
	return &apiFixture{
		app:  app,
		orgs: orgs,
		auth: bearer(t, pkgjwt.Identity{UserID: testUserID, Email: testEmail, EmailVerified: true}),
	}
}

// call lanza la petición autenticada y decodifica el cuerpo JSON (si lo hay) en out.
func (f *apiFixture) call(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", f.auth)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// seedCompleteOrganization deja al usuario de test con un perfil completo en NRW.
func (f *apiFixture) seedCompleteOrganization(t *testing.T) {
	t.Helper()
	require.NoError(t, f.orgs.Create(context.Background(), testutil.CompleteProfile(testUserID)))
}

type errorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Organización
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_SinToken_Retorna401(t *testing.T) {
	f := newAPI(t)
	f.auth = ""

	assert.Equal(t, http.StatusUnauthorized, f.call(t, http.MethodGet, "/api/onboarding", nil, nil))
}

func TestAPI_CrearOrganizacion(t *testing.T) {
	f := newAPI(t)

	var created map[string]any
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/organizations", map[string]string{"name": "Schmidt Digital"}, &created))
	assert.Equal(t, "Schmidt Digital", created["name"])
	assert.Equal(t, testUserID, created["ownerId"])

	var conflict errorBody
	assert.Equal(t, http.StatusConflict, f.call(t, http.MethodPost, "/api/organizations", map[string]string{"name": "Otra"}, &conflict))
	assert.Equal(t, "CONFLICT", conflict.Code)

	var onb map[string]any
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/onboarding", nil, &onb))
	assert.EqualValues(t, 33, onb["progress"], "email verificado y organización creada")
}

func TestAPI_CrearOrganizacion_SinNombre(t *testing.T) {
	f := newAPI(t)

	var body errorBody
	require.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/organizations", map[string]string{}, &body))
	assert.Equal(t, "VALIDATION", body.Code)
	assert.JSONEq(t, `[{"field":"name","code":"REQUIRED"}]`, string(body.Details))
}

func TestAPI_ActualizarPerfil_IBANInvalido(t *testing.T) {
	f := newAPI(t)
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/organizations", map[string]string{"name": "Schmidt"}, nil))

	var body errorBody
	require.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPut, "/api/organizations/me", map[string]string{"iban": "DE00123"}, &body))
	assert.JSONEq(t, `[{"field":"iban","code":"INVALID_FORMAT"}]`, string(body.Details))
}

func TestAPI_Completitud(t *testing.T) {
	f := newAPI(t)
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/organizations", map[string]string{"name": "Schmidt"}, nil))
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPut, "/api/organizations/me", map[string]any{
		"legalName":                  "Schmidt GmbH",
		"hasReceivedMIDDigitisation": false,
	}, nil))

	var out struct {
		AllFieldsFilled bool     `json:"allFieldsFilled"`
		MissingFields   []string `json:"missingFields"`
	}
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/organizations/me/completion", nil, &out))
	assert.False(t, out.AllFieldsFilled)
	assert.NotContains(t, out.MissingFields, "legalName")
	assert.NotContains(t, out.MissingFields, "hasReceivedMIDDigitisation")
	assert.NotContains(t, out.MissingFields, "email", "el email viene del token")
	assert.Equal(t, "taxId", out.MissingFields[0])
}

// ──────────────────────────────────────────────────────────────────────────────
// MID
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_MID_RequiereOrganizacion(t *testing.T) {
	f := newAPI(t)

	var body errorBody
	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodGet, "/api/mid/eligibility", nil, &body))
	assert.Equal(t, "NO_ORGANIZATION", body.Code)
}

func TestAPI_MID_PerfilIncompleto_Retorna422(t *testing.T) {
	f := newAPI(t)
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/organizations", map[string]string{"name": "Schmidt"}, nil))

	var body errorBody
	require.Equal(t, http.StatusUnprocessableEntity, f.call(t, http.MethodPost, "/api/mid/submissions", map[string]string{"fundingType": "Digitisation"}, &body))
	assert.Equal(t, "INCOMPLETE_PROFILE", body.Code)

	var details struct {
		MissingFields []string `json:"missingFields"`
	}
	require.NoError(t, json.Unmarshal(body.Details, &details))
	assert.Len(t, details.MissingFields, 19, "todos salvo el email del token")
}

func TestAPI_MID_CicloCompleto(t *testing.T) {
	f := newAPI(t)
	f.seedCompleteOrganization(t)

	var elig map[string]any
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/mid/eligibility?funding_type=Digitisation", nil, &elig))
	assert.Equal(t, true, elig["eligible"])
	assert.Equal(t, "none", elig["reasonCode"])

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/mid/submissions", map[string]any{
		"fundingType": "Digitisation",
		"id":          "intento-de-fijar-id",
	}, &created))
	assert.NotEqual(t, "intento-de-fijar-id", created.ID, "el id lo asigna el servidor")
	assert.Equal(t, "pending", created.Status)

	var updated struct {
		ID            string `json:"id"`
		ChangeHistory []struct {
			Field    string `json:"field"`
			NewValue string `json:"newValue"`
		} `json:"changeHistory"`
	}
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPut, "/api/mid/submissions/"+created.ID, map[string]string{
		"city": "Köln",
		"id":   "intento-de-cambiar-id",
		"_id":  "otro",
	}, &updated))
	assert.Equal(t, created.ID, updated.ID, "el id del cuerpo se ignora al editar")
	require.Len(t, updated.ChangeHistory, 1)
	assert.Equal(t, "city", updated.ChangeHistory[0].Field)
	assert.Equal(t, "Köln", updated.ChangeHistory[0].NewValue)

	var noSig errorBody
	require.Equal(t, http.StatusUnprocessableEntity, f.call(t, http.MethodPost, "/api/mid/submissions/"+created.ID+"/submit", map[string]any{}, &noSig))
	assert.Equal(t, "SIGNATURE_REQUIRED", noSig.Code)

	var submitted struct {
		Submitted  bool `json:"submitted"`
		Submission struct {
			Status        string `json:"status"`
			SignatureHash string `json:"signatureHash"`
		} `json:"submission"`
	}
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/api/mid/submissions/"+created.ID+"/submit", map[string]any{"acceptTerms": true}, &submitted))
	assert.True(t, submitted.Submitted)
	assert.Equal(t, "submitted", submitted.Submission.Status)
	assert.Len(t, submitted.Submission.SignatureHash, 64)

	var again errorBody
	assert.Equal(t, http.StatusConflict, f.call(t, http.MethodPost, "/api/mid/submissions/"+created.ID+"/submit", map[string]any{"acceptTerms": true}, &again))
	assert.Equal(t, "ALREADY_SUBMITTED", again.Code)

	var frozen errorBody
	assert.Equal(t, http.StatusConflict, f.call(t, http.MethodPut, "/api/mid/submissions/"+created.ID, map[string]string{"city": "Bonn"}, &frozen))
	assert.Equal(t, "ALREADY_SUBMITTED", frozen.Code, "una solicitud enviada no se edita")

	var list struct {
		Items []map[string]any `json:"items"`
	}
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/mid/submissions", nil, &list))
	assert.Len(t, list.Items, 1)

	assert.Equal(t, http.StatusNoContent, f.call(t, http.MethodDelete, "/api/mid/submissions/"+created.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, f.call(t, http.MethodGet, "/api/mid/submissions/"+created.ID, nil, &errorBody{}))
}

func TestAPI_MID_LineaInvalida(t *testing.T) {
	f := newAPI(t)
	f.seedCompleteOrganization(t)

	var body errorBody
	require.Equal(t, http.StatusBadRequest, f.call(t, http.MethodGet, "/api/mid/eligibility?funding_type=Marketing", nil, &body))
	assert.Equal(t, "INVALID_INPUT", body.Code)

	require.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/mid/submissions", map[string]string{"fundingType": "Marketing"}, &body))
	assert.Equal(t, "VALIDATION", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Onboarding e invitaciones
// ──────────────────────────────────────────────────────────────────────────────

func taskStatus(t *testing.T, onb map[string]any, name string) any {
	t.Helper()
	tasks, ok := onb["tasks"].([]any)
	require.True(t, ok)
	for _, raw := range tasks {
		task := raw.(map[string]any)
		if task["name"] == name {
			return task["status"]
		}
	}
	t.Fatalf("tarea %s no encontrada", name)
	return nil
}

func TestAPI_Onboarding_Tareas(t *testing.T) {
	f := newAPI(t)

	var onb map[string]any
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/api/onboarding/tasks/midApplied/skip", nil, &onb))
	assert.Equal(t, "skipped", taskStatus(t, onb, "midApplied"))
	assert.Equal(t, true, taskStatus(t, onb, "midSkipped"))

	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/api/onboarding/tasks/walkthroughCompleted/complete", nil, &onb))
	assert.Equal(t, true, taskStatus(t, onb, "walkthroughCompleted"))
	assert.Equal(t, false, taskStatus(t, onb, "bookingCallCompleted"))

	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/api/onboarding/call-reminder", nil, &onb))
	assert.Equal(t, true, onb["callReminderSent"])

	var body errorBody
	require.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/onboarding/tasks/rocketLaunched/complete", nil, &body))
	assert.Equal(t, "UNKNOWN_TASK", body.Code)
}

func TestAPI_Invitaciones(t *testing.T) {
	f := newAPI(t)
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/organizations", map[string]string{"name": "Schmidt"}, nil))

	var invalid errorBody
	require.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/invites", map[string]string{"email": "ben"}, &invalid))

	var inv map[string]any
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/invites", map[string]string{"email": "Ben@Example.de"}, &inv))
	assert.Equal(t, "ben@example.de", inv["email"])

	var dup errorBody
	assert.Equal(t, http.StatusConflict, f.call(t, http.MethodPost, "/api/invites", map[string]string{"email": "ben@example.de"}, &dup))

	var list struct {
		Items []map[string]any `json:"items"`
	}
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/invites", nil, &list))
	assert.Len(t, list.Items, 1)

	var onb map[string]any
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/onboarding", nil, &onb))
	assert.Equal(t, true, taskStatus(t, onb, "coworkersInvited"))
}
