package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldsales/visitform/internal/application/workflow"
	domainwf "github.com/fieldsales/visitform/internal/domain/workflow"
)

func TestFormProgress(t *testing.T) {
	out := &bytes.Buffer{}
	observe := FormProgress(out)

	observe(workflow.FormState{Phase: domainwf.StateAwaitingLocationConfirmation}, workflow.FormState{Phase: domainwf.StateLocating})
	observe(workflow.FormState{Phase: domainwf.StateLocating}, workflow.FormState{Phase: domainwf.StateLocating})
	observe(workflow.FormState{Phase: domainwf.StateLocating}, workflow.FormState{Phase: domainwf.StateIdle})
	observe(workflow.FormState{Phase: domainwf.StateAwaitingSendConfirmation}, workflow.FormState{Phase: domainwf.StateSubmitting})

	assert.Equal(t, "Obteniendo ubicación...\nEnviando...\n", out.String())
}

func TestSessionProgress(t *testing.T) {
	out := &bytes.Buffer{}
	observe := SessionProgress(out)

	observe(workflow.SessionState{Phase: domainwf.StateSignedOut}, workflow.SessionState{Phase: domainwf.StateVerifying})
	observe(workflow.SessionState{Phase: domainwf.StateVerifying}, workflow.SessionState{Phase: domainwf.StateSignedIn})
	observe(workflow.SessionState{Phase: domainwf.StateSignedIn}, workflow.SessionState{Phase: domainwf.StateAwaitingLogoutConfirmation})

	assert.Equal(t, "Verificando...\n", out.String())
}
