package leads

import "errors"

var (
	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("leads: lead not found")

	// ErrUnknownInteraction is returned for an interaction type the site never raises
	ErrUnknownInteraction = errors.New("leads: unknown interaction type")
)
