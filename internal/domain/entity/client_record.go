package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// MapSearchURL is the map link base used in visit e-mails
const MapSearchURL = "https://www.google.com/maps/search/?api=1&query="

// Coordinates is a WGS 84 position reported by the location provider
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid returns true if both components are within their ranges
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// MapLink returns a map search link with full precision coordinates
func (c Coordinates) MapLink() string {
	return MapSearchURL + formatDegrees(c.Latitude) + "," + formatDegrees(c.Longitude)
}

// Display formats the coordinates rounded to the given decimal places.
// Rounding is for presentation only.
func (c Coordinates) Display(places int) string {
	return fmt.Sprintf("%.*f, %.*f", places, c.Latitude, places, c.Longitude)
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ClientRecord is the data captured for one site visit
type ClientRecord struct {
	ClientNumber string       `json:"client_number"`
	ClientName   string       `json:"client_name"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// DetailsFilled returns true if both client fields are non-empty after trimming
func (r ClientRecord) DetailsFilled() bool {
	return strings.TrimSpace(r.ClientNumber) != "" && strings.TrimSpace(r.ClientName) != ""
}

// Complete returns true if the record can be submitted
func (r ClientRecord) Complete() bool {
	return r.DetailsFilled() && r.Coordinates != nil
}

// WithCoordinates returns a copy of the record holding the given coordinates
func (r ClientRecord) WithCoordinates(c Coordinates) ClientRecord {
	r.Coordinates = &c
	return r
}
