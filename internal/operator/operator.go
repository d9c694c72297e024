// Package operator is the human in the loop: it settles clue lines the
// recognizer could not read and acknowledges inconsistent puzzles.
//
// The pipeline only sees the Resolver and Acknowledger interfaces. Console
// talks to a terminal; Canned serves batch runs and tests.
package operator

import (
	"context"
	"errors"
	"image"

	"github.com/ironsheep/picross-capture/internal/domain"
)

// ErrUnattended is returned when no operator is available to answer.
var ErrUnattended = errors.New("no operator available")

// ResolveRequest describes one clue line that needs a manual answer.
type ResolveRequest struct {
	Orientation domain.Orientation
	Index       int

	// Image is the full-colour band the operator should read.
	Image image.Image

	// Cause is the recognition error that triggered the request.
	Cause error
}

// Resolver supplies the authoritative clue line for an unreadable band.
type Resolver interface {
	Resolve(ctx context.Context, req ResolveRequest) (domain.ClueLine, error)
}

// Acknowledger blocks until the operator has looked at a consistency report
// and possibly edited the spec file.
type Acknowledger interface {
	Acknowledge(ctx context.Context, report string) error
}

// Unattended refuses every request. It is used where blocking on a human is
// impossible, such as the MCP server.
type Unattended struct{}

func (Unattended) Resolve(context.Context, ResolveRequest) (domain.ClueLine, error) {
	return nil, ErrUnattended
}

func (Unattended) Acknowledge(context.Context, string) error {
	return ErrUnattended
}
