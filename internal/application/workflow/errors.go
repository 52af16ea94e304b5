package workflow

import "errors"

var (
	// ErrBusy is returned when a trigger arrives while a collaborator call is in flight
	ErrBusy = errors.New("operation in progress")

	// ErrNoIdentity is returned when a submission needs a salesperson and none is verified
	ErrNoIdentity = errors.New("no verified salesperson")
)
