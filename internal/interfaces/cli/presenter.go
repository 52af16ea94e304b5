// Package cli renders the visit form and the salesperson gate on a terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/workflow"
	domainwf "github.com/fieldsales/visitform/internal/domain/workflow"
)

// ErrQuit is returned by Run when the user leaves the application
var ErrQuit = errors.New("quit")

// Menu choices of the form screen
const (
	choiceClientNumber = "1"
	choiceClientName   = "2"
	choiceLocation     = "3"
	choiceSubmit       = "4"
	choiceLogout       = "5"
	choiceQuit         = "0"
)

// Presenter drives the session gate and the form engine from line based input.
// Dialogs are printed as boxes and answered with s/n.
type Presenter struct {
	in     *bufio.Scanner
	out    io.Writer
	gate   workflow.SessionGate
	form   workflow.FormEngine
	logger *zap.Logger
}

// NewPresenter creates a presenter reading commands from in and writing to out
func NewPresenter(in io.Reader, out io.Writer, gate workflow.SessionGate, form workflow.FormEngine, logger *zap.Logger) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Presenter{
		in:     bufio.NewScanner(in),
		out:    out,
		gate:   gate,
		form:   form,
		logger: logger,
	}
}

// Run shows the app until the input ends or the user quits
func (p *Presenter) Run(ctx context.Context) error {
	fmt.Fprintln(p.out, "Registro de Visitas")

	state, err := p.form.Start(ctx)
	if err != nil {
		return fmt.Errorf("start form: %w", err)
	}
	if err := p.settleForm(ctx, state); err != nil {
		return p.finish(err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !p.gate.State().Authenticated() {
			if err := p.login(ctx); err != nil {
				return p.finish(err)
			}
			continue
		}

		if err := p.formScreen(ctx); err != nil {
			return p.finish(err)
		}
	}
}

// finish turns a user exit into a clean return
func (p *Presenter) finish(err error) error {
	if errors.Is(err, ErrQuit) || errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out, "Hasta luego.")
		return nil
	}
	return err
}

func (p *Presenter) login(ctx context.Context) error {
	fmt.Fprintln(p.out)
	line, err := p.prompt("Número de teléfono (10 dígitos, 0 para terminar): ")
	if err != nil {
		return err
	}
	if line == choiceQuit {
		return ErrQuit
	}

	if _, err := p.gate.SetPhoneNumber(line); err != nil {
		return err
	}

	state, err := p.gate.Verify(ctx)
	if err != nil {
		return err
	}

	if state.Result != nil {
		p.dialog(state.Result.Title, state.Result.Message)
		_, err := p.gate.Dismiss()
		return err
	}

	if session := state.Session(); session.Authenticated {
		fmt.Fprintf(p.out, "Bienvenido, %s (%s)\n", session.Salesperson.Name, state.PhoneDisplay())
	}
	return nil
}

func (p *Presenter) formScreen(ctx context.Context) error {
	p.render(p.form.State())

	choice, err := p.prompt("Opción: ")
	if err != nil {
		return err
	}

	switch choice {
	case choiceClientNumber:
		text, err := p.prompt("N° Cliente: ")
		if err != nil {
			return err
		}
		_, err = p.form.SetClientNumber(text)
		return p.ignoreBusy(err)

	case choiceClientName:
		text, err := p.prompt("Nombre del cliente: ")
		if err != nil {
			return err
		}
		_, err = p.form.SetClientName(text)
		return p.ignoreBusy(err)

	case choiceLocation:
		if !p.form.State().LocationEnabled() {
			fmt.Fprintln(p.out, "Captura el número y el nombre del cliente primero.")
			return nil
		}
		state, err := p.form.RequestLocation(ctx)
		if err != nil {
			return p.ignoreBusy(err)
		}
		return p.settleForm(ctx, state)

	case choiceSubmit:
		state, err := p.form.RequestSubmit(ctx)
		if err != nil {
			return p.ignoreBusy(err)
		}
		return p.settleForm(ctx, state)

	case choiceLogout:
		return p.logout()

	case choiceQuit:
		return ErrQuit

	default:
		fmt.Fprintln(p.out, "Opción no válida.")
		return nil
	}
}

// settleForm answers dialogs until the form leaves them
func (p *Presenter) settleForm(ctx context.Context, state workflow.FormState) error {
	for state.Phase.IsDialog() {
		var err error

		switch state.Phase {
		case domainwf.StateAwaitingLocationConfirmation:
			p.dialog(workflow.TitleConfirmLocation, workflow.MsgConfirmLocation)
			ok, askErr := p.confirm()
			if askErr != nil {
				return askErr
			}
			if ok {
				state, err = p.form.ConfirmLocation(ctx)
			} else {
				state, err = p.form.Cancel()
			}

		case domainwf.StateAwaitingSendConfirmation:
			summary := state.SendSummary()
			p.dialog(workflow.TitleConfirmSend, workflow.MsgConfirmSend,
				"• N° Cliente: "+summary.ClientNumber,
				"• Nombre: "+summary.ClientName,
				"• Coordenadas: "+summary.Coordinates)
			ok, askErr := p.confirm()
			if askErr != nil {
				return askErr
			}
			if ok {
				state, err = p.form.ConfirmSend(ctx)
			} else {
				state, err = p.form.Cancel()
			}

		case domainwf.StateShowingResult:
			if state.Result != nil {
				p.dialog(state.Result.Title, state.Result.Message)
			}
			if _, askErr := p.prompt("Presiona Enter para continuar"); askErr != nil {
				return askErr
			}
			state, err = p.form.Dismiss()

		default:
			p.logger.Warn("Unexpected form dialog", zap.String("phase", string(state.Phase)))
			return nil
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Presenter) logout() error {
	state, err := p.gate.RequestLogout()
	if err != nil {
		return p.ignoreBusy(err)
	}
	if state.Phase != domainwf.StateAwaitingLogoutConfirmation {
		return nil
	}

	p.dialog(workflow.TitleConfirmLogout, workflow.MsgConfirmLogout)
	ok, err := p.confirm()
	if err != nil {
		return err
	}
	if ok {
		_, err = p.gate.ConfirmLogout()
	} else {
		_, err = p.gate.CancelLogout()
	}
	return err
}

// ignoreBusy reports rejected triggers to the user instead of failing
func (p *Presenter) ignoreBusy(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, workflow.ErrBusy) || errors.Is(err, domainwf.ErrInvalidTransition) || errors.Is(err, domainwf.ErrGuardFailed) {
		p.logger.Debug("Trigger rejected", zap.Error(err))
		fmt.Fprintln(p.out, "Acción no disponible en este momento.")
		return nil
	}
	return err
}

func (p *Presenter) render(s workflow.FormState) {
	sp := p.gate.Salesperson()

	fmt.Fprintln(p.out)
	if sp != nil {
		fmt.Fprintf(p.out, "Vendedor: %s (%s)\n", sp.Name, p.gate.State().PhoneDisplay())
	}
	fmt.Fprintf(p.out, "N° Cliente: %s\n", placeholder(s.Record.ClientNumber))
	fmt.Fprintf(p.out, "Nombre: %s\n", placeholder(s.Record.ClientName))
	if s.Record.Coordinates != nil {
		fmt.Fprintf(p.out, "Ubicación: %s\n", s.Record.Coordinates.Display(workflow.CoordinateDisplayPlaces))
	} else {
		fmt.Fprintln(p.out, "Ubicación: sin capturar")
	}
	fmt.Fprintf(p.out, "Mapa: %.4f, %.4f (Δ %.4f)\n", s.Region.Latitude, s.Region.Longitude, s.Region.LatitudeDelta)

	fmt.Fprintf(p.out, "[%s] N° Cliente  [%s] Nombre  [%s] Ubicación%s  [%s] Enviar%s  [%s] Salir  [%s] Terminar\n",
		choiceClientNumber, choiceClientName,
		choiceLocation, disabledMark(s.LocationEnabled()),
		choiceSubmit, disabledMark(s.SubmitEnabled()),
		choiceLogout, choiceQuit)
}

func (p *Presenter) dialog(title, message string, lines ...string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "┌ "+title)
	fmt.Fprintln(p.out, "│ "+message)
	for _, line := range lines {
		fmt.Fprintln(p.out, "│ "+line)
	}
	fmt.Fprintln(p.out, "└")
}

func (p *Presenter) confirm() (bool, error) {
	for {
		answer, err := p.prompt("¿Continuar? (s/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "s", "si", "sí", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// prompt prints label and reads one trimmed line
func (p *Presenter) prompt(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func placeholder(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func disabledMark(enabled bool) string {
	if enabled {
		return ""
	}
	return " (inactivo)"
}
