package workflow

import (
	"strings"

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
	domainwf "github.com/fieldsales/visitform/internal/domain/workflow"
	"github.com/fieldsales/visitform/pkg/utils"
)

// ResultKind tells a success dialog from an error dialog
type ResultKind string

const (
	ResultSuccess ResultKind = "success"
	ResultError   ResultKind = "error"
)

// Result is the content of a ShowingResult dialog
type Result struct {
	Kind    ResultKind
	Title   string
	Message string
}

// IsError returns true for error dialogs
func (r Result) IsError() bool {
	return r.Kind == ResultError
}

// MapRegion is the visible map area
type MapRegion struct {
	Latitude       float64
	Longitude      float64
	LatitudeDelta  float64
	LongitudeDelta float64
}

// DefaultMapRegion is shown until a position is acquired
var DefaultMapRegion = MapRegion{
	Latitude:       32.5333,
	Longitude:      -117.0167,
	LatitudeDelta:  0.0922,
	LongitudeDelta: 0.0421,
}

func regionAround(c entity.Coordinates) MapRegion {
	return MapRegion{
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
		LatitudeDelta:  0.01,
		LongitudeDelta: 0.01,
	}
}

// FormState is an immutable snapshot of the visit form.
// The engine replaces it as a whole on every transition.
type FormState struct {
	Phase      domainwf.State
	Record     entity.ClientRecord
	Result     *Result
	Permission port.Permission
	Region     MapRegion
}

func initialFormState() FormState {
	return FormState{
		Phase:  domainwf.StateIdle,
		Region: DefaultMapRegion,
	}
}

// LocationEnabled reports whether the location control is active
func (s FormState) LocationEnabled() bool {
	return s.Record.DetailsFilled() && !s.Phase.IsBusy()
}

// SubmitEnabled reports whether the submit control is active
func (s FormState) SubmitEnabled() bool {
	return s.Record.Complete() && !s.Phase.IsBusy()
}

// SendSummary is what the send confirmation dialog shows
type SendSummary struct {
	ClientNumber string
	ClientName   string
	Coordinates  string
}

// SendSummary returns the values that will be submitted, as displayed to the user
func (s FormState) SendSummary() SendSummary {
	summary := SendSummary{
		ClientNumber: strings.TrimSpace(s.Record.ClientNumber),
		ClientName:   utils.TitleCase(strings.TrimSpace(s.Record.ClientName)),
	}
	if s.Record.Coordinates != nil {
		summary.Coordinates = s.Record.Coordinates.Display(CoordinateDisplayPlaces)
	}
	return summary
}

// submission builds the gateway payload with full precision coordinates
func (s FormState) submission(sp *entity.Salesperson) entity.Submission {
	sub := entity.Submission{
		ClientNumber: strings.TrimSpace(s.Record.ClientNumber),
		ClientName:   utils.TitleCase(strings.TrimSpace(s.Record.ClientName)),
	}
	if s.Record.Coordinates != nil {
		sub.Latitude = s.Record.Coordinates.Latitude
		sub.Longitude = s.Record.Coordinates.Longitude
	}
	if sp != nil {
		sub.SalespersonName = sp.Name
		sub.SalespersonPhone = sp.Phone
	}
	return sub
}

// SessionState is an immutable snapshot of the salesperson session
type SessionState struct {
	Phase       domainwf.State
	PhoneNumber string
	Salesperson *entity.Salesperson
	Result      *Result
}

// Authenticated reports whether a salesperson has been verified
func (s SessionState) Authenticated() bool {
	return s.Salesperson != nil
}

// PhoneDisplay returns the phone number grouped as XXX-XXX-XXXX
func (s SessionState) PhoneDisplay() string {
	return utils.FormatPhoneDisplay(s.PhoneNumber)
}

// Session converts the snapshot to its entity form
func (s SessionState) Session() entity.SalespersonSession {
	return entity.SalespersonSession{
		PhoneNumber:   s.PhoneNumber,
		Salesperson:   s.Salesperson,
		Authenticated: s.Authenticated(),
	}
}
