package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/dispatch"
	"rideshare/internal/domain"
	"rideshare/internal/ledger"
)

// PassengerHandler handles HTTP requests for passengers.
type PassengerHandler struct {
	dispatcher *dispatch.Dispatcher
}

// NewPassengerHandler creates a new PassengerHandler.
func NewPassengerHandler(dispatcher *dispatch.Dispatcher) *PassengerHandler {
	return &PassengerHandler{dispatcher: dispatcher}
}

// PassengerResponse is the HTTP response for passenger data.
type PassengerResponse struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	PhoneNumber string         `json:"phone_number"`
	TripCount   int            `json:"trip_count"`
	Trips       []TripResponse `json:"trips,omitempty"`
}

func newPassengerResponse(p *domain.Passenger) PassengerResponse {
	return PassengerResponse{
		ID:          p.ID,
		Name:        p.Name,
		PhoneNumber: p.PhoneNumber,
		TripCount:   len(p.Trips),
	}
}

// GetAll handles GET /v1/passengers
func (h *PassengerHandler) GetAll(c *gin.Context) {
	passengers := h.dispatcher.Passengers()

	response := make([]PassengerResponse, 0, len(passengers))
	for i := range passengers {
		response = append(response, newPassengerResponse(&passengers[i]))
	}

	c.JSON(http.StatusOK, response)
}

// GetPassenger handles GET /v1/passengers/:id
func (h *PassengerHandler) GetPassenger(c *gin.Context) {
	id, err := ledger.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	passenger, err := h.dispatcher.FindPassenger(id)
	if err != nil {
		respondError(c, err)
		return
	}

	trips, err := h.dispatcher.PassengerTrips(id)
	if err != nil {
		respondError(c, err)
		return
	}

	response := newPassengerResponse(passenger)
	response.Trips = newTripResponses(trips)
	respondJSON(c, http.StatusOK, response)
}
