package cli

import (
	"fmt"
	"io"

	"github.com/fieldsales/visitform/internal/application/workflow"
	domainwf "github.com/fieldsales/visitform/internal/domain/workflow"
)

var busyLines = map[domainwf.State]string{
	domainwf.StateLocating:   "Obteniendo ubicación...",
	domainwf.StateSubmitting: "Enviando...",
	domainwf.StateVerifying:  "Verificando...",
}

// FormProgress prints a busy line each time the form enters a busy phase
func FormProgress(out io.Writer) workflow.FormObserver {
	return func(prev, next workflow.FormState) {
		printBusy(out, prev.Phase, next.Phase)
	}
}

// SessionProgress prints a busy line while a phone number is being verified
func SessionProgress(out io.Writer) workflow.SessionObserver {
	return func(prev, next workflow.SessionState) {
		printBusy(out, prev.Phase, next.Phase)
	}
}

func printBusy(out io.Writer, prev, next domainwf.State) {
	if prev == next || !next.IsBusy() {
		return
	}
	if line, ok := busyLines[next]; ok {
		fmt.Fprintln(out, line)
	}
}
