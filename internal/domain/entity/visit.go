package entity

import "time"

// Submission is the wire payload of POST /api/send-mail
type Submission struct {
	ClientNumber     string  `json:"client_number"`
	ClientName       string  `json:"client_name"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	SalespersonName  string  `json:"salesperson_name"`
	SalespersonPhone string  `json:"salesperson_phone"`
}

// Coordinates returns the submitted position
func (s Submission) Coordinates() Coordinates {
	return Coordinates{Latitude: s.Latitude, Longitude: s.Longitude}
}

// Visit is a submission recorded by the backend
type Visit struct {
	ID               string     `json:"id"`
	ClientNumber     string     `json:"client_number"`
	ClientName       string     `json:"client_name"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	SalespersonName  string     `json:"salesperson_name"`
	SalespersonPhone string     `json:"salesperson_phone"`
	Status           string     `json:"status"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	SentAt           *time.Time `json:"sent_at,omitempty"`
}

// Coordinates returns the visit position
func (v Visit) Coordinates() Coordinates {
	return Coordinates{Latitude: v.Latitude, Longitude: v.Longitude}
}
