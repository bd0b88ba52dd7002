package domain

// Passenger represents a rider in the system.
type Passenger struct {
	ID          int
	Name        string
	PhoneNumber string
	Trips       []Ref
}
