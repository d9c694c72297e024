package device

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/logger"
)

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("input channel closed")

const queueSize = 1024

// tapQueue feeds queued points to one worker goroutine. Close stops intake,
// waits until the worker has sent everything and returns the first send error.
type tapQueue struct {
	mu     sync.Mutex
	closed bool
	points chan domain.Point
	done   chan struct{}
	err    error
}

func newTapQueue(send func(domain.Point) error) *tapQueue {
	q := &tapQueue{
		points: make(chan domain.Point, queueSize),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(q.done)
		for p := range q.points {
			if q.err != nil {
				continue
			}
			if err := send(p); err != nil {
				q.err = err
				logger.L().Error("tap.failed", "x", p.X, "y", p.Y, "err", err)
			}
		}
	}()
	return q
}

func (q *tapQueue) Enqueue(x, y int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.points <- domain.Point{X: x, Y: y}
	return nil
}

func (q *tapQueue) Close() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.points)
	}
	q.mu.Unlock()

	<-q.done
	return q.err
}

// TapChannel taps through "adb shell input tap", one process per tap.
type TapChannel struct {
	*tapQueue
}

// NewTapChannel starts the worker. delay is the pause after every tap so the
// puzzle UI can keep up.
func NewTapChannel(ctx context.Context, adb *ADB, delay time.Duration) *TapChannel {
	return &TapChannel{tapQueue: newTapQueue(func(p domain.Point) error {
		if _, err := adb.Command(ctx, "shell", "input", "tap", strconv.Itoa(p.X), strconv.Itoa(p.Y)); err != nil {
			return err
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		return nil
	})}
}
