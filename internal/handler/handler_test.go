package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"rideshare/internal/dispatch"
	"rideshare/internal/domain"
	"rideshare/internal/ledger"
	"rideshare/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T, statuses ...string) (*gin.Engine, *dispatch.Dispatcher) {
	t.Helper()

	var drivers []*domain.Driver
	for i, status := range statuses {
		d, err := domain.NewDriver(i+1, "Driver", "1B6CF40K1J3Y74UY2", status)
		if err != nil {
			t.Fatalf("NewDriver: %v", err)
		}
		drivers = append(drivers, d)
	}

	end := time.Date(2018, 6, 1, 12, 0, 0, 0, time.UTC)
	rating := 5
	var trips []*domain.Trip
	if len(drivers) > 0 {
		trips = append(trips, &domain.Trip{
			ID: 1, DriverID: 1, PassengerID: 2,
			StartTime: end.Add(-30 * time.Minute), EndTime: &end, Rating: &rating,
		})
	}

	store, err := ledger.New(drivers, []*domain.Passenger{
		{ID: 1, Name: "Ada", PhoneNumber: "555-0100"},
		{ID: 2, Name: "Grace", PhoneNumber: "555-0101"},
	}, trips)
	if err != nil {
		t.Fatalf("ledger.New: %v", err)
	}

	disp := dispatch.New(store)
	tripService := service.NewTripService(service.TripServiceDeps{Dispatcher: disp})

	driverHandler := NewDriverHandler(disp, tripService)
	passengerHandler := NewPassengerHandler(disp)
	tripHandler := NewTripHandler(tripService, disp)

	router := gin.New()
	v1 := router.Group("/v1")
	v1.GET("/drivers", driverHandler.GetAll)
	v1.GET("/drivers/:id", driverHandler.GetDriver)
	v1.PUT("/drivers/:id/status", driverHandler.UpdateStatus)
	v1.GET("/passengers", passengerHandler.GetAll)
	v1.GET("/passengers/:id", passengerHandler.GetPassenger)
	v1.POST("/trips", tripHandler.RequestTrip)
	v1.GET("/trips", tripHandler.GetAll)
	v1.GET("/trips/:id", tripHandler.GetTrip)

	return router, disp
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ──────────────────────────────────────────────
// TRIP REQUESTS
// ──────────────────────────────────────────────

func TestRequestTrip_Created(t *testing.T) {
	router, disp := setupRouter(t, "AVAILABLE", "AVAILABLE")

	w := doRequest(router, http.MethodPost, "/v1/trips", `{"passenger_id": 1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp TripResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.DriverID != 2 {
		t.Errorf("expected driver 2 (no history), got %d", resp.DriverID)
	}
	if resp.ID != 2 {
		t.Errorf("expected trip id 2, got %d", resp.ID)
	}
	if !resp.InProgress || resp.EndTime != "" || resp.Cost != nil || resp.Rating != nil {
		t.Errorf("expected in-progress trip, got %+v", resp)
	}
	if n := len(disp.Trips()); n != 2 {
		t.Errorf("expected 2 trips, got %d", n)
	}
}

func TestRequestTrip_AcceptsNumericString(t *testing.T) {
	router, _ := setupRouter(t, "AVAILABLE")

	w := doRequest(router, http.MethodPost, "/v1/trips", `{"passenger_id": "1"}`)
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequestTrip_AcceptsEscapedNumericString(t *testing.T) {
	router, _ := setupRouter(t, "AVAILABLE")

	w := doRequest(router, http.MethodPost, "/v1/trips", `{"passenger_id": "\u0031"}`)
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequestTrip_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		body     string
		want     int
	}{
		{name: "non-numeric id", statuses: []string{"AVAILABLE"}, body: `{"passenger_id": "abc"}`, want: http.StatusBadRequest},
		{name: "negative id", statuses: []string{"AVAILABLE"}, body: `{"passenger_id": -4}`, want: http.StatusBadRequest},
		{name: "missing id", statuses: []string{"AVAILABLE"}, body: `{}`, want: http.StatusBadRequest},
		{name: "malformed body", statuses: []string{"AVAILABLE"}, body: `{`, want: http.StatusBadRequest},
		{name: "null id", statuses: []string{"AVAILABLE"}, body: `{"passenger_id": null}`, want: http.StatusBadRequest},
		{name: "boolean id", statuses: []string{"AVAILABLE"}, body: `{"passenger_id": true}`, want: http.StatusBadRequest},
		{name: "fractional id", statuses: []string{"AVAILABLE"}, body: `{"passenger_id": 1.5}`, want: http.StatusBadRequest},
		{name: "stray quote in string id", statuses: []string{"AVAILABLE"}, body: `{"passenger_id": "\"1"}`, want: http.StatusBadRequest},
		{name: "object id", statuses: []string{"AVAILABLE"}, body: `{"passenger_id": {"id": 1}}`, want: http.StatusBadRequest},
		{name: "unknown passenger", statuses: []string{"AVAILABLE"}, body: `{"passenger_id": 99}`, want: http.StatusNotFound},
		{name: "no driver available", statuses: []string{"UNAVAILABLE"}, body: `{"passenger_id": 1}`, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, disp := setupRouter(t, tt.statuses...)
			before := len(disp.Trips())

			w := doRequest(router, http.MethodPost, "/v1/trips", tt.body)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			if after := len(disp.Trips()); after != before {
				t.Errorf("expected %d trips, got %d", before, after)
			}
		})
	}
}

// ──────────────────────────────────────────────
// LOOKUPS
// ──────────────────────────────────────────────

func TestGetDriver_InvalidIDIsBadRequestNotNotFound(t *testing.T) {
	router, _ := setupRouter(t, "AVAILABLE")

	if w := doRequest(router, http.MethodGet, "/v1/drivers/abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/v1/drivers/42", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/v1/passengers/x1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric passenger id, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/v1/passengers/42", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown passenger, got %d", w.Code)
	}
}

func TestGetDriver_IncludesTrips(t *testing.T) {
	router, _ := setupRouter(t, "AVAILABLE")

	w := doRequest(router, http.MethodGet, "/v1/drivers/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp DriverResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TripCount != 1 || len(resp.Trips) != 1 {
		t.Fatalf("expected 1 trip, got count=%d trips=%d", resp.TripCount, len(resp.Trips))
	}
	if resp.Trips[0].EndTime != "2018-06-01T12:00:00Z" {
		t.Errorf("unexpected end time %q", resp.Trips[0].EndTime)
	}
	if resp.Trips[0].Rating == nil || *resp.Trips[0].Rating != 5 {
		t.Errorf("expected rating 5, got %v", resp.Trips[0].Rating)
	}
}

func TestGetPassenger_IncludesTrips(t *testing.T) {
	router, _ := setupRouter(t, "AVAILABLE")

	w := doRequest(router, http.MethodGet, "/v1/passengers/2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp PassengerResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Name != "Grace" || resp.TripCount != 1 {
		t.Errorf("unexpected passenger: %+v", resp)
	}
}

func TestGetAll_Lists(t *testing.T) {
	router, _ := setupRouter(t, "AVAILABLE", "UNAVAILABLE")

	var drivers []DriverResponse
	w := doRequest(router, http.MethodGet, "/v1/drivers", "")
	if err := json.Unmarshal(w.Body.Bytes(), &drivers); err != nil {
		t.Fatalf("decode drivers: %v", err)
	}
	if len(drivers) != 2 || drivers[0].ID != 1 || drivers[1].Status != "UNAVAILABLE" {
		t.Errorf("unexpected drivers: %+v", drivers)
	}

	var passengers []PassengerResponse
	w = doRequest(router, http.MethodGet, "/v1/passengers", "")
	if err := json.Unmarshal(w.Body.Bytes(), &passengers); err != nil {
		t.Fatalf("decode passengers: %v", err)
	}
	if len(passengers) != 2 {
		t.Errorf("expected 2 passengers, got %d", len(passengers))
	}

	var trips []TripResponse
	w = doRequest(router, http.MethodGet, "/v1/trips", "")
	if err := json.Unmarshal(w.Body.Bytes(), &trips); err != nil {
		t.Fatalf("decode trips: %v", err)
	}
	if len(trips) != 1 || trips[0].InProgress {
		t.Errorf("unexpected trips: %+v", trips)
	}

	if w := doRequest(router, http.MethodGet, "/v1/trips/1", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200 for trip 1, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/v1/trips/9", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for trip 9, got %d", w.Code)
	}
}

// ──────────────────────────────────────────────
// DRIVER STATUS
// ──────────────────────────────────────────────

func TestUpdateStatus(t *testing.T) {
	router, _ := setupRouter(t, "UNAVAILABLE")

	if w := doRequest(router, http.MethodPost, "/v1/trips", `{"passenger_id": 1}`); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before status change, got %d", w.Code)
	}

	w := doRequest(router, http.MethodPut, "/v1/drivers/1/status", `{"status": "available"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if w := doRequest(router, http.MethodPost, "/v1/trips", `{"passenger_id": 1}`); w.Code != http.StatusCreated {
		t.Errorf("expected 201 after status change, got %d", w.Code)
	}

	if w := doRequest(router, http.MethodPut, "/v1/drivers/1/status", `{"status": "ON_BREAK"}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodPut, "/v1/drivers/7/status", `{"status": "AVAILABLE"}`); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown driver, got %d", w.Code)
	}
}
