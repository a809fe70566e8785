package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	intconfig "ambulance/internal/config"
	"ambulance/internal/domain"
	"ambulance/internal/domain/models"
	"ambulance/internal/realtime"
	"ambulance/internal/repositories"
	"ambulance/internal/services"
	"ambulance/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

const testSecret = "router-test-secret"

type fakeStore struct {
	mu   sync.Mutex
	rows map[string]repositories.TripRow
}

func (s *fakeStore) Insert(_ context.Context, row repositories.TripRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.ID] = row
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (repositories.TripRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return repositories.TripRow{}, domain.NotFoundError{Resource: "trip"}
	}
	return row, nil
}

type fakeHospitals []models.Hospital

func (h fakeHospitals) ListHospitals(context.Context) []models.Hospital { return h }

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type testServer struct {
	engine  *gin.Engine
	store   *fakeStore
	gateway *services.TripGateway
}

func newTestServer(t *testing.T, pingErr error) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &fakeStore{rows: map[string]repositories.TripRow{}}
	notifications := services.NewNotificationCenter()
	gateway := &services.TripGateway{
		Store:     store,
		Hospitals: fakeHospitals{{ID: "h1", Name: "City Hospital", Address: "12 Ring Road"}},
		Session:   session.ContextProvider{},
		Notifier:  notifications,
		Feed:      realtime.NewFeed[repositories.TripRow](),
	}
	forms := services.NewFormSessions(func() *services.BookingForm {
		return services.NewBookingForm(gateway, services.TripValidator{}, notifications)
	})
	env := intconfig.Env{JWTSecret: testSecret, CORSOrigins: []string{"http://localhost:3000"}}

	r := NewRouter(env, Deps{
		Forms:         forms,
		Gateway:       gateway,
		Notifications: notifications,
		Monitor:       services.NewConnectionMonitor(fakePinger{err: pingErr}, time.Minute, notifications),
	})
	return testServer{engine: r, store: store, gateway: gateway}
}

func token(t *testing.T, userID string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func (s testServer) do(t *testing.T, method, path, user, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, user))
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func field(m map[string]any, path ...string) any {
	var cur any = m
	for _, p := range path {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = mm[p]
	}
	return cur
}

func TestHealthIsPublicAndDraftIsNot(t *testing.T) {
	s := newTestServer(t, nil)

	if w, _ := s.do(t, http.MethodGet, "/api/health", "", ""); w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}
	if w, _ := s.do(t, http.MethodGet, "/api/booking/draft", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("draft without token: expected 401, got %d", w.Code)
	}
	w, body := s.do(t, http.MethodGet, "/api/nope", "", "")
	if w.Code != http.StatusNotFound || body["error"] != "route not found" {
		t.Fatalf("unexpected 404 response %d %v", w.Code, body)
	}
}

func TestBookingFlowSavesAndServesTrip(t *testing.T) {
	s := newTestServer(t, nil)
	user := "u-1"

	w, body := s.do(t, http.MethodGet, "/api/booking/draft", user, "")
	if w.Code != http.StatusOK || field(body, "draft", "tripMode") != "Online" {
		t.Fatalf("unexpected initial draft %d %v", w.Code, body)
	}

	steps := []struct{ path, body string }{
		{"/api/booking/draft/patient-details", `{"name":"Jane Doe","condition":"Stable","age":54,"gender":"Female"}`},
		{"/api/booking/draft/trip-route", `{"pickupLocation":"MG Road","distance":12.5}`},
		{"/api/booking/draft/financials", `{"moneyCharged":1500,"expenses":{"fuel":200,"driver":300}}`},
		{"/api/booking/draft/trip-mode", `{"tripMode":"Offline"}`},
	}
	for _, st := range steps {
		if w, body := s.do(t, http.MethodPatch, st.path, user, st.body); w.Code != http.StatusOK {
			t.Fatalf("PATCH %s: %d %v", st.path, w.Code, body)
		}
	}

	w, body = s.do(t, http.MethodPost, "/api/booking/draft/hospital", user, `{"name":"City Hospital"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("select hospital: %d %v", w.Code, body)
	}
	if field(body, "draft", "tripRoute", "dropLocation") != "12 Ring Road" || field(body, "draft", "tripRoute", "hospital") != "City Hospital" {
		t.Fatalf("hospital not applied: %v", body["draft"])
	}
	if field(body, "draft", "financials", "totalExpenses") != 500.0 {
		t.Fatalf("expected total 500, got %v", field(body, "draft", "financials", "totalExpenses"))
	}

	w, body = s.do(t, http.MethodPost, "/api/booking/submit", user, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: %d %v", w.Code, body)
	}
	id, _ := field(body, "trip", "id").(string)
	if !strings.HasPrefix(id, "TP-") || field(body, "trip", "userId") != user || field(body, "trip", "tripMode") != "Offline" {
		t.Fatalf("unexpected saved trip %v", body["trip"])
	}
	notes, _ := body["notifications"].([]any)
	if len(notes) != 1 || field(notes[0].(map[string]any), "message") != "Trip saved successfully" {
		t.Fatalf("expected success notification, got %v", body["notifications"])
	}
	if len(s.store.rows) != 1 {
		t.Fatalf("expected one stored row, got %d", len(s.store.rows))
	}

	_, body = s.do(t, http.MethodGet, "/api/booking/draft", user, "")
	if field(body, "draft", "patientDetails", "name") != "" || field(body, "draft", "tripMode") != "Online" {
		t.Fatalf("draft should reset after save: %v", body["draft"])
	}

	w, body = s.do(t, http.MethodGet, "/api/trips/"+id, user, "")
	if w.Code != http.StatusOK || field(body, "patientDetails", "name") != "Jane Doe" {
		t.Fatalf("get trip: %d %v", w.Code, body)
	}

	w, _ = s.do(t, http.MethodGet, "/api/trips/"+id+"/slip", user, "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("slip: %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Fatalf("slip body is not a pdf")
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "Jane_Doe") {
		t.Fatalf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}
}

func TestSubmitEmptyDraftReturnsFieldErrors(t *testing.T) {
	s := newTestServer(t, nil)

	w, body := s.do(t, http.MethodPost, "/api/booking/submit", "u-2", "")
	if w.Code != http.StatusBadRequest || body["code"] != "validation_error" {
		t.Fatalf("expected validation error, got %d %v", w.Code, body)
	}
	if field(body, "details", "patientDetails", "name") != "Patient name is required" {
		t.Fatalf("missing field details: %v", body["details"])
	}
	if field(body, "details", "financials", "moneyCharged") != "Money charged is required" {
		t.Fatalf("missing financials details: %v", body["details"])
	}

	_, body = s.do(t, http.MethodGet, "/api/booking/draft", "u-2", "")
	if field(body, "errors", "tripRoute", "distance") != "Distance is required" {
		t.Fatalf("errors not kept on draft: %v", body["errors"])
	}
	notes, _ := body["notifications"].([]any)
	if len(notes) != 1 || field(notes[0].(map[string]any), "message") != "Please fill in all required fields" {
		t.Fatalf("expected aggregate notification, got %v", body["notifications"])
	}

	// typing into a field clears just that field's error
	_, body = s.do(t, http.MethodPatch, "/api/booking/draft/patient-details", "u-2", `{"name":"A"}`)
	if field(body, "errors", "patientDetails", "name") != nil || field(body, "errors", "patientDetails", "condition") == nil {
		t.Fatalf("unexpected errors after patch: %v", body["errors"])
	}
}

func TestDraftsAreKeptPerUser(t *testing.T) {
	s := newTestServer(t, nil)

	s.do(t, http.MethodPatch, "/api/booking/draft/patient-details", "alice", `{"name":"Alice's patient"}`)
	_, body := s.do(t, http.MethodGet, "/api/booking/draft", "bob", "")
	if field(body, "draft", "patientDetails", "name") != "" {
		t.Fatalf("drafts leaked between users: %v", body["draft"])
	}

	if w, _ := s.do(t, http.MethodDelete, "/api/booking/draft", "alice", ""); w.Code != http.StatusNoContent {
		t.Fatalf("discard: expected 204, got %d", w.Code)
	}
	_, body = s.do(t, http.MethodGet, "/api/booking/draft", "alice", "")
	if field(body, "draft", "patientDetails", "name") != "" {
		t.Fatalf("discarded draft still present: %v", body["draft"])
	}
}

func TestPatchNullResetsOptionalField(t *testing.T) {
	s := newTestServer(t, nil)

	_, body := s.do(t, http.MethodPatch, "/api/booking/draft/patient-details", "u-5", `{"name":"Jane","age":54,"gender":"Female"}`)
	if field(body, "draft", "patientDetails", "age") != 54.0 {
		t.Fatalf("age not set: %v", body["draft"])
	}

	w, body := s.do(t, http.MethodPatch, "/api/booking/draft/patient-details", "u-5", `{"age":null}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH age null: %d %v", w.Code, body)
	}
	if field(body, "draft", "patientDetails", "age") != nil {
		t.Fatalf("age should be cleared: %v", body["draft"])
	}
	if field(body, "draft", "patientDetails", "gender") != "Female" || field(body, "draft", "patientDetails", "name") != "Jane" {
		t.Fatalf("other fields must be kept: %v", body["draft"])
	}
}

func TestPatchRejectsBadInput(t *testing.T) {
	s := newTestServer(t, nil)

	cases := []struct{ path, body string }{
		{"/api/booking/draft/patient-details", `{"gender":"Unknown"}`},
		{"/api/booking/draft/patient-details", `{"age":-1}`},
		{"/api/booking/draft/trip-mode", `{"tripMode":"Teleport"}`},
		{"/api/booking/draft/trip-mode", `{}`},
		{"/api/booking/draft/financials", `{"moneyCharged":"lots"}`},
		{"/api/booking/draft/trip-route", ""},
	}
	for _, tc := range cases {
		if w, body := s.do(t, http.MethodPatch, tc.path, "u-3", tc.body); w.Code != http.StatusBadRequest {
			t.Fatalf("PATCH %s %s: expected 400, got %d %v", tc.path, tc.body, w.Code, body)
		}
	}

	if w, _ := s.do(t, http.MethodPost, "/api/booking/draft/hospital", "u-3", `{"name":"Nowhere General"}`); w.Code != http.StatusNotFound {
		t.Fatalf("unknown hospital: expected 404, got %d", w.Code)
	}
	if w, _ := s.do(t, http.MethodGet, "/api/trips/TP-000000-000", "u-3", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown trip: expected 404, got %d", w.Code)
	}
}

func TestHospitalsList(t *testing.T) {
	s := newTestServer(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/hospitals", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "u-4"))
	s.engine.ServeHTTP(w, req)

	var list []models.Hospital
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusOK || len(list) != 1 || list[0].Address != "12 Ring Road" {
		t.Fatalf("unexpected hospitals %d %+v", w.Code, list)
	}
}

func TestConnectionEndpoints(t *testing.T) {
	s := newTestServer(t, errors.New("dial tcp: refused"))

	w, body := s.do(t, http.MethodGet, "/api/connection", "", "")
	if w.Code != http.StatusOK || body["status"] != "connected" || body["checkedAt"] != nil {
		t.Fatalf("unexpected initial status %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodGet, "/api/db-check", "", "")
	if w.Code != http.StatusServiceUnavailable || body["status"] != "offline" {
		t.Fatalf("db-check: %d %v", w.Code, body)
	}

	_, body = s.do(t, http.MethodGet, "/api/connection", "", "")
	if body["status"] != "offline" || body["checkedAt"] == nil {
		t.Fatalf("status not updated: %v", body)
	}
}

func TestStreamPushesCreatedTrips(t *testing.T) {
	s := newTestServer(t, nil)
	srv := httptest.NewServer(s.engine)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/trips/stream?access_token=" + token(t, "watcher")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.gateway.Feed.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx := session.WithUserID(context.Background(), "writer")
	res := s.gateway.SaveTrip(ctx, models.TripData{
		PatientDetails: models.PatientDetails{Name: "Ravi", Condition: "Critical"},
		TripRoute:      models.TripRoute{PickupLocation: "A", DropLocation: "B", Distance: 3},
		Financials:     models.Financials{MoneyCharged: 900},
		TripMode:       models.TripModeOnline,
	})
	if !res.Success {
		t.Fatalf("save failed: %v", res.Err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string          `json:"type"`
		Payload models.TripData `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "trip_created" || msg.Payload.ID != res.Data.ID || msg.Payload.UserID != "writer" {
		t.Fatalf("unexpected message %+v", msg)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for s.gateway.Feed.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscription not disposed after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
