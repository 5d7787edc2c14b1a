package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"schedulepro/internal/analytics"
	"schedulepro/internal/handlers"
	"schedulepro/internal/metrics"
	"schedulepro/internal/middleware"
	"schedulepro/internal/models"
	"schedulepro/internal/services"
	"schedulepro/testhelpers"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const (
	testSecret = "server-test-secret"
	testBucket = "exports"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type bookingView struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	CreatedBy    *uuid.UUID      `json:"created_by"`
	IsDeleted    bool            `json:"is_deleted"`
	Requirements json.RawMessage `json:"requirements"`
	People       []uuid.UUID     `json:"people"`
	Vehicles     []uuid.UUID     `json:"vehicles"`
	Equipment    []uuid.UUID     `json:"equipment"`
}

type ServerTestSuite struct {
	suite.Suite
	e        *echo.Echo
	store    *testhelpers.MemStore
	identity *testhelpers.FakeIdentity
	cache    *testhelpers.FakeCache
	storage  *testhelpers.FakeStorage
	tracker  *analytics.BufferedTracker
	db       *stubPinger
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	log := zap.NewNop()
	suite.store = testhelpers.NewMemStore()
	suite.identity = testhelpers.NewFakeIdentity(testSecret)
	suite.cache = testhelpers.NewFakeCache()
	suite.storage = testhelpers.NewFakeStorage()
	suite.db = &stubPinger{}

	m := metrics.New("schedulepro-test")
	suite.tracker = analytics.NewBufferedTracker(suite.store.Analytics(), log, m, 100)

	keys, err := middleware.NewKeySource("", testSecret, log)
	suite.Require().NoError(err)

	personRepo := suite.store.People()
	resolver := services.NewPrincipalResolver(personRepo, suite.cache, time.Minute, log)
	bookingService := services.NewBookingService(suite.store.Bookings(), suite.tracker)

	suite.e = New(Dependencies{
		Logger:         log,
		Metrics:        m,
		AuthGate:       middleware.NewAuthGate(keys, suite.cache, resolver, log),
		Auth:           handlers.NewAuthHandlers(services.NewAuthService(suite.identity, suite.store.Companies(), personRepo, suite.cache, suite.tracker, log)),
		People:         handlers.NewPersonHandlers(services.NewPersonService(personRepo, suite.cache, suite.tracker, log)),
		Vehicles:       handlers.NewVehicleHandlers(services.NewVehicleService(suite.store.Vehicles(), suite.tracker)),
		Equipment:      handlers.NewEquipmentHandlers(services.NewEquipmentService(suite.store.Equipment(), suite.tracker)),
		Bookings:       handlers.NewBookingHandlers(bookingService, services.NewExportService(suite.store.Bookings(), suite.storage, testBucket, suite.tracker)),
		Health:         handlers.NewHealthHandlers(suite.db, suite.cache),
		AllowedOrigins: []string{"http://localhost:5173"},
		APIVersion:     "v1",
	})
}

func (suite *ServerTestSuite) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	suite.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

// register creates a company with its owner and returns the owner's access token.
func (suite *ServerTestSuite) register(company, email string) string {
	rec, env := suite.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"company_name": company,
		"name":         "Owner of " + company,
		"email":        email,
		"password":     "correct-horse",
	})
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var result struct {
		Session struct {
			AccessToken string `json:"access_token"`
		} `json:"session"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	return result.Session.AccessToken
}

func (suite *ServerTestSuite) createPerson(token, email string) uuid.UUID {
	rec, env := suite.do(http.MethodPost, "/api/people", token, map[string]any{"name": "Crew " + email, "email": email})
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var person struct {
		ID uuid.UUID `json:"id"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &person))
	return person.ID
}

func decodeBooking(t *testing.T, env envelope) bookingView {
	t.Helper()
	var b bookingView
	require.NoError(t, json.Unmarshal(env.Data, &b))
	return b
}

func (suite *ServerTestSuite) TestHealthEndpoints() {
	rec, _ := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("v1", rec.Header().Get(middleware.HeaderAPIVersion))

	var health handlers.HealthStatus
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &health))
	suite.Equal("ok", health.Status)

	rec, _ = suite.do(http.MethodGet, "/health/ready", "", nil)
	suite.Equal(http.StatusOK, rec.Code)

	suite.db.err = errors.New("connection refused")
	rec, _ = suite.do(http.MethodGet, "/health/ready", "", nil)
	suite.Equal(http.StatusServiceUnavailable, rec.Code)
	var ready handlers.ReadinessStatus
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &ready))
	suite.Equal("not_ready", ready.Status)
	suite.Equal("unhealthy", ready.Services["database"])
	suite.Equal("healthy", ready.Services["redis"])
}

func (suite *ServerTestSuite) TestUnknownRoute() {
	rec, env := suite.do(http.MethodGet, "/api/unknown", "", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal("error", env.Status)
	suite.Equal(handlers.MsgRouteNotFound, env.Message)

	rec, env = suite.do(http.MethodPatch, "/health", "", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal(handlers.MsgRouteNotFound, env.Message)

	rec, env = suite.do(http.MethodGet, "/api/people/"+uuid.NewString()+"/history", "", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal(handlers.MsgRouteNotFound, env.Message)

	rec, env = suite.do(http.MethodPatch, "/api/bookings", "", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal(handlers.MsgRouteNotFound, env.Message)

	token := suite.register("Acme", "owner@acme.test")
	rec, env = suite.do(http.MethodGet, "/api/unknown", token, nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal(handlers.MsgRouteNotFound, env.Message)
}

func (suite *ServerTestSuite) TestDeletedOwnerLosesCompanyAccess() {
	token := suite.register("Acme", "owner@acme.test")

	rec, env := suite.do(http.MethodGet, "/api/auth/me", token, nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var profile models.Profile
	suite.Require().NoError(json.Unmarshal(env.Data, &profile))

	rec, _ = suite.do(http.MethodGet, "/api/people", token, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)

	rec, _ = suite.do(http.MethodDelete, "/api/people/"+profile.ID.String(), token, nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec, env = suite.do(http.MethodGet, "/api/people", token, nil)
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal(handlers.MsgCompanyMissing, env.Message)
}

func (suite *ServerTestSuite) TestProtectedRoutesNeedToken() {
	rec, env := suite.do(http.MethodGet, "/api/bookings", "", nil)
	suite.Equal(http.StatusUnauthorized, rec.Code)
	suite.Equal(middleware.MsgNoToken, env.Message)

	rec, env = suite.do(http.MethodGet, "/api/bookings", "not-a-token", nil)
	suite.Equal(http.StatusUnauthorized, rec.Code)
	suite.Equal(middleware.MsgInvalidToken, env.Message)
}

func (suite *ServerTestSuite) TestUserWithoutCompany() {
	_, session, err := suite.identity.SignUp(context.Background(), "drifter@example.com", "correct-horse", nil)
	suite.Require().NoError(err)

	rec, env := suite.do(http.MethodGet, "/api/people", session.AccessToken, nil)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal(handlers.MsgCompanyMissing, env.Message)
}

func (suite *ServerTestSuite) TestAuthFlow() {
	token := suite.register("Acme Field Services", "dana@example.com")

	rec, env := suite.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"company_name": "Acme Again", "name": "Dana", "email": "dana@example.com", "password": "correct-horse",
	})
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("User already registered", env.Message)

	rec, env = suite.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"company_name": "Acme", "name": "Dana", "email": "short@example.com", "password": "short",
	})
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("Password must be at least 8 characters", env.Message)

	rec, env = suite.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "dana@example.com", "password": "wrong-horse"})
	suite.Equal(http.StatusUnauthorized, rec.Code)
	suite.Equal("Invalid email or password", env.Message)

	rec, env = suite.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "dana@example.com", "password": "correct-horse"})
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("Login successful", env.Message)

	rec, env = suite.do(http.MethodGet, "/api/auth/me", token, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var profile struct {
		Email   string `json:"email"`
		Company struct {
			Slug string `json:"slug"`
		} `json:"company"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &profile))
	suite.Equal("dana@example.com", profile.Email)
	suite.Equal("acme-field-services", profile.Company.Slug)

	rec, env = suite.do(http.MethodPost, "/api/auth/logout", token, nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("Logout successful", env.Message)
	suite.Equal([]string{token}, suite.identity.SignedOut)

	rec, env = suite.do(http.MethodGet, "/api/auth/me", token, nil)
	suite.Equal(http.StatusUnauthorized, rec.Code)
	suite.Equal(middleware.MsgInvalidToken, env.Message)
}

func (suite *ServerTestSuite) TestBookingLifecycle() {
	token := suite.register("Acme", "owner@acme.test")
	inspector := suite.createPerson(token, "inspector@acme.test")

	rec, env := suite.do(http.MethodPost, "/api/bookings", token, map[string]any{
		"title":      "Bridge Inspection",
		"location":   "Pier 4",
		"start_time": "2025-03-10T08:00:00Z",
		"end_time":   "2025-03-10T12:00:00Z",
		"requirements": map[string]any{
			"people":    []any{map[string]any{"role": "inspector", "quantity": 1}},
			"equipment": []any{map[string]any{"type": "drone", "min_condition": "good", "quantity": 1}},
		},
		"people": []uuid.UUID{inspector},
	})
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	suite.Equal("Booking created successfully", env.Message)
	created := decodeBooking(suite.T(), env)
	suite.Equal([]uuid.UUID{inspector}, created.People)
	suite.Equal([]uuid.UUID{}, created.Vehicles)
	suite.NotNil(created.CreatedBy)
	id := created.ID.String()

	vehicle := uuid.New()
	rec, env = suite.do(http.MethodPut, "/api/bookings/"+id, token, map[string]any{
		"title":      "Bridge Inspection (rescheduled)",
		"start_time": "2025-03-11T08:00:00Z",
		"end_time":   "2025-03-11T12:00:00Z",
		"vehicles":   []uuid.UUID{vehicle},
	})
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBooking(suite.T(), env)
	suite.Equal([]uuid.UUID{}, updated.People)
	suite.Equal([]uuid.UUID{vehicle}, updated.Vehicles)
	suite.Contains(string(updated.Requirements), "drone")

	rec, env = suite.do(http.MethodGet, "/api/bookings/"+id, token, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Equal("Bridge Inspection (rescheduled)", decodeBooking(suite.T(), env).Title)

	rec, env = suite.do(http.MethodDelete, "/api/bookings/"+id, token, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.True(decodeBooking(suite.T(), env).IsDeleted)

	rec, env = suite.do(http.MethodDelete, "/api/bookings/"+id, token, nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal("Booking not found or already deleted", env.Message)

	rec, _ = suite.do(http.MethodGet, "/api/bookings/"+id, token, nil)
	suite.Equal(http.StatusNotFound, rec.Code)

	rec, env = suite.do(http.MethodPost, "/api/bookings/"+id+"/restore", token, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.False(decodeBooking(suite.T(), env).IsDeleted)

	rec, env = suite.do(http.MethodPost, "/api/bookings/"+id+"/restore", token, nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal("Booking not found or not deleted", env.Message)
}

func (suite *ServerTestSuite) TestBookingDuplicateResourceIds() {
	token := suite.register("Acme", "owner@acme.test")
	crew := suite.createPerson(token, "crew@acme.test")

	rec, env := suite.do(http.MethodPost, "/api/bookings", token, map[string]any{
		"title":      "Double shift",
		"start_time": "2025-03-10T08:00:00Z",
		"end_time":   "2025-03-10T20:00:00Z",
		"people":     []uuid.UUID{crew, crew},
	})
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	suite.Equal([]uuid.UUID{crew, crew}, decodeBooking(suite.T(), env).People)
}

func (suite *ServerTestSuite) TestBookingValidation() {
	token := suite.register("Acme", "owner@acme.test")
	base := func() map[string]any {
		return map[string]any{
			"title":      "Bridge Inspection",
			"start_time": "2025-03-10T08:00:00Z",
			"end_time":   "2025-03-10T12:00:00Z",
		}
	}

	tests := []struct {
		name   string
		mutate func(body map[string]any)
		msg    string
	}{
		{"end equals start", func(b map[string]any) { b["end_time"] = b["start_time"] }, "End time must be after start time"},
		{"missing title", func(b map[string]any) { delete(b, "title") }, "Title, start time, and end time are required"},
		{"unparseable start", func(b map[string]any) { b["start_time"] = "next monday" }, "Invalid start time or end time format"},
		{"bad min_condition", func(b map[string]any) {
			b["requirements"] = map[string]any{"equipment": []any{map[string]any{"min_condition": "mint", "quantity": 1}}}
		}, "Equipment min_condition must be excellent, good, fair, or poor"},
		{"zero quantity", func(b map[string]any) {
			b["requirements"] = map[string]any{"vehicles": []any{map[string]any{"quantity": 0}}}
		}, "Vehicle requirement quantity must be at least 1"},
		{"requirements not an object", func(b map[string]any) { b["requirements"] = []any{} }, "Requirements must be an object"},
		{"malformed resource id", func(b map[string]any) { b["people"] = []string{"not-a-uuid"} }, handlers.MsgInvalidRequest},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			body := base()
			tt.mutate(body)

			rec, env := suite.do(http.MethodPost, "/api/bookings", token, body)

			suite.Equal(http.StatusBadRequest, rec.Code)
			suite.Equal(tt.msg, env.Message)
		})
	}

	rec, env := suite.do(http.MethodPost, "/api/bookings", token, `{"title":`)
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal(handlers.MsgInvalidRequest, env.Message)
}

func (suite *ServerTestSuite) TestTenantIsolation() {
	acme := suite.register("Acme", "owner@acme.test")
	globex := suite.register("Globex", "owner@globex.test")
	personID := suite.createPerson(acme, "crew@acme.test")

	rec, env := suite.do(http.MethodGet, "/api/people/"+personID.String(), globex, nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal("Person not found", env.Message)

	rec, _ = suite.do(http.MethodPut, "/api/people/"+personID.String(), globex, map[string]any{"name": "Hijacked", "email": "x@globex.test"})
	suite.Equal(http.StatusNotFound, rec.Code)

	rec, env = suite.do(http.MethodGet, "/api/people", globex, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var people []struct {
		Email string `json:"email"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &people))
	suite.Len(people, 1)
	suite.Equal("owner@globex.test", people[0].Email)

	// The same email is free in another company.
	suite.createPerson(globex, "crew@acme.test")
}

func (suite *ServerTestSuite) TestResourceDuplicates() {
	token := suite.register("Acme", "owner@acme.test")

	rec, env := suite.do(http.MethodPost, "/api/people", token, map[string]any{"name": "Owner again", "email": "owner@acme.test"})
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("A person with this email already exists in your company", env.Message)

	vehicle := map[string]any{"name": "Crew Van", "license_plate": "7ABC123"}
	rec, _ = suite.do(http.MethodPost, "/api/vehicles", token, vehicle)
	suite.Require().Equal(http.StatusCreated, rec.Code)
	rec, env = suite.do(http.MethodPost, "/api/vehicles", token, vehicle)
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("A vehicle with this license plate already exists in your company", env.Message)

	rec, env = suite.do(http.MethodPost, "/api/equipment", token, map[string]any{"name": "Drone", "serial_number": "DJ-1", "condition": "broken"})
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("Condition must be one of: excellent, good, fair, poor", env.Message)

	rec, env = suite.do(http.MethodGet, "/api/equipment/not-a-uuid", token, nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal("Equipment not found", env.Message)
}

func (suite *ServerTestSuite) TestExportBookings() {
	token := suite.register("Acme", "owner@acme.test")
	for _, start := range []string{"2025-03-10T08:00:00Z", "2025-04-02T08:00:00Z"} {
		rec, _ := suite.do(http.MethodPost, "/api/bookings", token, map[string]any{
			"title":      "Inspection " + start,
			"start_time": start,
			"end_time":   "2025-05-01T00:00:00Z",
		})
		suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec, env := suite.do(http.MethodPost, "/api/bookings/export?from=2025-03-01&to=2025-04-01", token, nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var result services.ExportResult
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.Equal(1, result.Rows)
	data, ok := suite.storage.Object(testBucket, result.ObjectName)
	suite.Require().True(ok)
	suite.Contains(string(data), "Inspection 2025-03-10T08:00:00Z")
	suite.NotContains(string(data), "Inspection 2025-04-02T08:00:00Z")

	rec, env = suite.do(http.MethodPost, "/api/bookings/export?from=yesterday", token, nil)
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Contains(env.Message, "Invalid export range")

	rec, env = suite.do(http.MethodPost, "/api/bookings/export?format=pdf&from=2025-03-01&to=2025-04-01", token, nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.Equal(services.ExportPDF, result.Format)
	suite.True(strings.HasSuffix(result.ObjectName, ".pdf"))

	rec, env = suite.do(http.MethodPost, "/api/bookings/export?format=xlsx", token, nil)
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("Export format must be csv or pdf", env.Message)
}

func (suite *ServerTestSuite) TestAnalyticsFlushedToStore() {
	token := suite.register("Acme", "owner@acme.test")
	suite.createPerson(token, "crew@acme.test")

	suite.Require().NoError(suite.tracker.Flush(context.Background()))

	var names []string
	for _, ev := range suite.store.Events() {
		names = append(names, ev.EventName)
	}
	assert.ElementsMatch(suite.T(), []string{"company.registered", "person.created"}, names)
}

func (suite *ServerTestSuite) TestMetricsEndpoint() {
	suite.do(http.MethodGet, "/health", "", nil)

	rec, _ := suite.do(http.MethodGet, "/metrics", "", nil)

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "http_requests_total")
}
