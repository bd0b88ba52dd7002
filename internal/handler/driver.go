package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/dispatch"
	"rideshare/internal/domain"
	"rideshare/internal/ledger"
	"rideshare/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	dispatcher  *dispatch.Dispatcher
	tripService *service.TripService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(dispatcher *dispatch.Dispatcher, tripService *service.TripService) *DriverHandler {
	return &DriverHandler{
		dispatcher:  dispatcher,
		tripService: tripService,
	}
}

// UpdateStatusRequest is the HTTP request body for changing driver availability.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	VehicleID string         `json:"vehicle_id"`
	Status    string         `json:"status"`
	TripCount int            `json:"trip_count"`
	Trips     []TripResponse `json:"trips,omitempty"`
}

func newDriverResponse(d *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:        d.ID,
		Name:      d.Name,
		VehicleID: d.VehicleID,
		Status:    string(d.Status),
		TripCount: len(d.Trips),
	}
}

// GetAll handles GET /v1/drivers
func (h *DriverHandler) GetAll(c *gin.Context) {
	drivers := h.dispatcher.Drivers()

	response := make([]DriverResponse, 0, len(drivers))
	for i := range drivers {
		response = append(response, newDriverResponse(&drivers[i]))
	}

	c.JSON(http.StatusOK, response)
}

// GetDriver handles GET /v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	id, err := ledger.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	driver, err := h.dispatcher.FindDriver(id)
	if err != nil {
		respondError(c, err)
		return
	}

	trips, err := h.dispatcher.DriverTrips(id)
	if err != nil {
		respondError(c, err)
		return
	}

	response := newDriverResponse(driver)
	response.Trips = newTripResponses(trips)
	respondJSON(c, http.StatusOK, response)
}

// UpdateStatus handles PUT /v1/drivers/:id/status
func (h *DriverHandler) UpdateStatus(c *gin.Context) {
	id, err := ledger.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status, err := domain.ParseDriverStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.tripService.SetDriverStatus(c.Request.Context(), id, status); err != nil {
		respondError(c, err)
		return
	}

	driver, err := h.dispatcher.FindDriver(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newDriverResponse(driver))
}
