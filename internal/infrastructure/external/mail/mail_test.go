package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/failure"
	"github.com/fieldsales/visitform/internal/infrastructure/storage"
)

func testSubmission() entity.Submission {
	return entity.Submission{
		ClientNumber:     "12345",
		ClientName:       "Abarrotes Peña",
		Latitude:         19.4326,
		Longitude:        -99.1332,
		SalespersonName:  "Laura Gómez",
		SalespersonPhone: "6641234567",
	}
}

func testComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer(ComposerConfig{
		Recipients: []string{"ventas@example.com", "gerencia@example.com"},
		Location:   time.UTC,
	})
	require.NoError(t, err)
	return c
}

func TestNewComposer_RequiresRecipients(t *testing.T) {
	_, err := NewComposer(ComposerConfig{})
	assert.Error(t, err)
}

func TestComposer_Compose(t *testing.T) {
	c := testComposer(t)
	at := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	msg, err := c.Compose(testSubmission(), at)
	require.NoError(t, err)

	assert.Equal(t, []string{"ventas@example.com", "gerencia@example.com"}, msg.To)
	assert.Equal(t, "Nuevo registro de cliente: 12345 - Abarrotes Peña", msg.Subject)

	assert.Contains(t, msg.TextBody, "N° Cliente: 12345")
	assert.Contains(t, msg.TextBody, "Latitud: 19.4326")
	assert.Contains(t, msg.TextBody, "Longitud: -99.1332")
	assert.Contains(t, msg.TextBody, "Vendedor: Laura Gómez")
	assert.Contains(t, msg.TextBody, "Fecha: 05/03/2024 14:30")
	assert.Contains(t, msg.TextBody, entity.MapSearchURL+"19.4326,-99.1332")

	assert.Contains(t, msg.HTMLBody, "Abarrotes Peña")
	assert.Contains(t, msg.HTMLBody, `href="https://www.google.com/maps/search/?api=1`)
	assert.Contains(t, msg.HTMLBody, "query=19.4326,-99.1332")
}

func TestComposer_EscapesHTML(t *testing.T) {
	c := testComposer(t)
	sub := testSubmission()
	sub.ClientName = "<script>alert(1)</script>"

	msg, err := c.Compose(sub, time.Now())
	require.NoError(t, err)

	assert.NotContains(t, msg.HTMLBody, "<script>")
	assert.Contains(t, msg.TextBody, "<script>")
}

func TestComposer_OmitsMissingSalesperson(t *testing.T) {
	c := testComposer(t)
	sub := testSubmission()
	sub.SalespersonName = ""
	sub.SalespersonPhone = ""

	msg, err := c.Compose(sub, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, msg.TextBody, "Vendedor")
}

func TestBuildMessage(t *testing.T) {
	msg := port.MailMessage{
		To:       []string{"a@example.com", "b@example.com"},
		Subject:  "Registro: Peña",
		TextBody: "Nombre: Peña",
		HTMLBody: "<p>Peña</p>",
	}

	raw, err := buildMessage("visitas@example.com", msg, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	s := string(raw)

	assert.Contains(t, s, "From: visitas@example.com\r\n")
	assert.Contains(t, s, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, s, "Subject: =?utf-8?q?")
	assert.Contains(t, s, "MIME-Version: 1.0\r\n")
	assert.Contains(t, s, "multipart/alternative")
	assert.Contains(t, s, "Content-Type: text/plain; charset=utf-8")
	assert.Contains(t, s, "Content-Type: text/html; charset=utf-8")
	assert.Contains(t, s, "Pe=C3=B1a")
	assert.NotContains(t, s, "Peña")
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "a@example.com", formatAddress("", "a@example.com"))
	assert.Equal(t, "Visitas <a@example.com>", formatAddress("Visitas", "a@example.com"))
}

func TestSMTPSender_Send(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "user",
		Password: "secret",
		From:     "visitas@example.com",
	}, zap.NewNop())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotAuth smtp.Auth
	var gotMsg []byte
	sender.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
		return nil
	}

	err := sender.Send(context.Background(), port.MailMessage{
		To:       []string{"ventas@example.com"},
		Subject:  "hola",
		TextBody: "hola",
		HTMLBody: "<p>hola</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "visitas@example.com", gotFrom)
	assert.Equal(t, []string{"ventas@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: hola")
}

func TestSMTPSender_NoAuthWithoutCredentials(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 25, From: "v@example.com"}, zap.NewNop())

	called := false
	sender.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		assert.Nil(t, a)
		return nil
	}

	require.NoError(t, sender.Send(context.Background(), port.MailMessage{To: []string{"x@example.com"}}))
	assert.True(t, called)
}

func TestSMTPSender_Error(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 25, From: "v@example.com"}, zap.NewNop())
	sender.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := sender.Send(context.Background(), port.MailMessage{To: []string{"x@example.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPSender_CanceledContext(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 25}, zap.NewNop())
	sender.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sender.Send(ctx, port.MailMessage{}), context.Canceled)
}

func TestOutboxSender_Send(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewLocalStore(dir, zap.NewNop())
	outbox := NewOutboxSender(store, "visitas@example.com", zap.NewNop())
	outbox.now = func() time.Time { return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC) }

	err := outbox.Send(context.Background(), port.MailMessage{
		To:       []string{"ventas@example.com"},
		Subject:  "Nuevo registro: 12345",
		TextBody: "hola",
	})
	require.NoError(t, err)

	exists, err := store.Exists(context.Background(), "20240305T143000.000-Nuevo_registro_12345.eml")
	require.NoError(t, err)
	assert.True(t, exists)
}

type stubSender struct {
	sent []port.MailMessage
	err  error
}

func (s *stubSender) Send(_ context.Context, msg port.MailMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestGateway_Submit(t *testing.T) {
	sender := &stubSender{}
	gw := NewGateway(testComposer(t), sender)

	require.NoError(t, gw.Submit(context.Background(), testSubmission()))
	require.Len(t, sender.sent, 1)
	assert.True(t, strings.HasSuffix(sender.sent[0].Subject, "12345 - Abarrotes Peña"))
}

func TestGateway_SubmitFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("relay unavailable")}
	gw := NewGateway(testComposer(t), sender)

	err := gw.Submit(context.Background(), testSubmission())
	require.Error(t, err)
	assert.Equal(t, failure.KindNetwork, failure.KindOf(err))
	assert.Equal(t, failure.TitleSendError, failure.TitleOf(err, ""))
	assert.Equal(t, "relay unavailable", failure.MessageOf(err, ""))
}
