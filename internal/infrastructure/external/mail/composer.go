package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
	"time"

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
)

const defaultSubjectPrefix = "Nuevo registro de cliente"

const htmlBody = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1F2937;">
  <h2>📍 Registro de Ubicación de Cliente</h2>
  <ul>
    <li><strong>N° Cliente:</strong> {{.ClientNumber}}</li>
    <li><strong>Nombre:</strong> {{.ClientName}}</li>
    <li><strong>Latitud:</strong> {{.Latitude}}</li>
    <li><strong>Longitud:</strong> {{.Longitude}}</li>
{{- if .SalespersonName}}
    <li><strong>Vendedor:</strong> {{.SalespersonName}}</li>
    <li><strong>Teléfono del vendedor:</strong> {{.SalespersonPhone}}</li>
{{- end}}
    <li><strong>Fecha:</strong> {{.RegisteredAt}}</li>
  </ul>
  <p><a href="{{.MapLink}}">Ver ubicación en Google Maps</a></p>
</body>
</html>
`

const textBody = `Registro de Ubicación de Cliente

N° Cliente: {{.ClientNumber}}
Nombre: {{.ClientName}}
Latitud: {{.Latitude}}
Longitud: {{.Longitude}}
{{- if .SalespersonName}}
Vendedor: {{.SalespersonName}}
Teléfono del vendedor: {{.SalespersonPhone}}
{{- end}}
Fecha: {{.RegisteredAt}}

Mapa: {{.MapLink}}
`

// ComposerConfig holds the fixed parts of every visit e-mail
type ComposerConfig struct {
	Recipients    []string
	SubjectPrefix string
	Location      *time.Location
}

// Composer renders visit e-mails
type Composer struct {
	recipients    []string
	subjectPrefix string
	location      *time.Location
	html          *htmltemplate.Template
	text          *template.Template
}

type visitView struct {
	ClientNumber     string
	ClientName       string
	Latitude         string
	Longitude        string
	SalespersonName  string
	SalespersonPhone string
	RegisteredAt     string
	MapLink          htmltemplate.URL
}

// NewComposer creates a composer sending to the given fixed recipients
func NewComposer(cfg ComposerConfig) (*Composer, error) {
	if len(cfg.Recipients) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	html, err := htmltemplate.New("visit.html").Parse(htmlBody)
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}
	text, err := template.New("visit.txt").Parse(textBody)
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = defaultSubjectPrefix
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &Composer{
		recipients:    append([]string{}, cfg.Recipients...),
		subjectPrefix: prefix,
		location:      loc,
		html:          html,
		text:          text,
	}, nil
}

// Compose renders the e-mail for a submission registered at the given time
func (c *Composer) Compose(sub entity.Submission, registeredAt time.Time) (port.MailMessage, error) {
	coords := sub.Coordinates()
	view := visitView{
		ClientNumber:     sub.ClientNumber,
		ClientName:       sub.ClientName,
		Latitude:         fmt.Sprint(sub.Latitude),
		Longitude:        fmt.Sprint(sub.Longitude),
		SalespersonName:  sub.SalespersonName,
		SalespersonPhone: sub.SalespersonPhone,
		RegisteredAt:     registeredAt.In(c.location).Format("02/01/2006 15:04"),
		MapLink:          htmltemplate.URL(coords.MapLink()),
	}

	var html, text bytes.Buffer
	if err := c.html.Execute(&html, view); err != nil {
		return port.MailMessage{}, fmt.Errorf("render html body: %w", err)
	}
	if err := c.text.Execute(&text, view); err != nil {
		return port.MailMessage{}, fmt.Errorf("render text body: %w", err)
	}

	return port.MailMessage{
		To:       append([]string{}, c.recipients...),
		Subject:  fmt.Sprintf("%s: %s - %s", c.subjectPrefix, sub.ClientNumber, sub.ClientName),
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}
