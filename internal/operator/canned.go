package operator

import (
	"context"
	"fmt"
	"sync"

	"github.com/ironsheep/picross-capture/internal/domain"
)

// Canned answers resolution requests from a fixed table and records every
// request and acknowledgement it sees.
type Canned struct {
	mu sync.Mutex

	// Answers maps a line key ("row:3", "column:0") to its clue line.
	Answers map[string]domain.ClueLine

	// OnAcknowledge runs on every acknowledgement. When nil, acknowledging
	// fails with ErrUnattended, since nobody can fix the puzzle.
	OnAcknowledge func(report string) error

	Requests []ResolveRequest
	Reports  []string
}

// Key formats the lookup key for a line.
func Key(o domain.Orientation, index int) string {
	return fmt.Sprintf("%s:%d", o, index)
}

func (c *Canned) Resolve(ctx context.Context, req ResolveRequest) (domain.ClueLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Requests = append(c.Requests, req)
	line, ok := c.Answers[Key(req.Orientation, req.Index)]
	if !ok {
		return nil, fmt.Errorf("no canned answer for %s: %w", Key(req.Orientation, req.Index), ErrUnattended)
	}
	return line, nil
}

func (c *Canned) Acknowledge(ctx context.Context, report string) error {
	c.mu.Lock()
	c.Reports = append(c.Reports, report)
	fn := c.OnAcknowledge
	c.mu.Unlock()

	if fn == nil {
		return ErrUnattended
	}
	return fn(report)
}
