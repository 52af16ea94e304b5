package entity

import "time"

// Salesperson is a field representative allowed to register visits
type Salesperson struct {
	ID        int64     `json:"-"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Active    bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// SalespersonSession is the client-side authentication state
type SalespersonSession struct {
	PhoneNumber   string       `json:"phone_number"`
	Salesperson   *Salesperson `json:"salesperson,omitempty"`
	Authenticated bool         `json:"authenticated"`
}
