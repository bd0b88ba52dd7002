package domain

import (
	"errors"
	"strings"
)

// ErrInvalidDriverStatus is returned when a status value is not one of the known statuses.
var ErrInvalidDriverStatus = errors.New("invalid driver status")

// DriverStatus represents whether a driver can take new trips.
type DriverStatus string

const (
	DriverStatusAvailable   DriverStatus = "AVAILABLE"
	DriverStatusUnavailable DriverStatus = "UNAVAILABLE"
)

// ParseDriverStatus converts a raw status token into a DriverStatus.
func ParseDriverStatus(raw string) (DriverStatus, error) {
	switch DriverStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case DriverStatusAvailable:
		return DriverStatusAvailable, nil
	case DriverStatusUnavailable:
		return DriverStatusUnavailable, nil
	default:
		return "", ErrInvalidDriverStatus
	}
}

// VehicleIDLength is the length of a valid vehicle identification number.
const VehicleIDLength = 17

// UnknownVehicleID replaces vehicle ids that do not have VehicleIDLength characters.
var UnknownVehicleID = strings.Repeat("0", VehicleIDLength)

// NormalizeVehicleID returns vin unchanged if it has exactly VehicleIDLength
// characters, and UnknownVehicleID otherwise.
func NormalizeVehicleID(vin string) string {
	if len([]rune(vin)) != VehicleIDLength {
		return UnknownVehicleID
	}
	return vin
}

// Driver represents a driver in the system.
type Driver struct {
	ID        int
	Name      string
	VehicleID string
	Status    DriverStatus
	Trips     []Ref // Arena refs of the driver's trips, in attach order
}

// NewDriver builds a driver from raw field values, normalizing the vehicle id
// and rejecting unknown statuses.
func NewDriver(id int, name, vin, status string) (*Driver, error) {
	parsed, err := ParseDriverStatus(status)
	if err != nil {
		return nil, err
	}
	return &Driver{
		ID:        id,
		Name:      name,
		VehicleID: NormalizeVehicleID(vin),
		Status:    parsed,
	}, nil
}

// IsAvailable reports whether the driver can be selected for a new trip.
func (d *Driver) IsAvailable() bool {
	return d.Status == DriverStatusAvailable
}
