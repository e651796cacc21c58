package modal

import (
	"context"
	"errors"
	"sync"
)

type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Status int

const (
	StatusClosed Status = iota
	StatusOpen
	StatusConfirmed
	StatusCancelled
)

var ErrNotOpen = errors.New("confirmation is not open")

// Confirm is the yes/no dialog guarding destructive actions. It stays open
// with the error of a failed action so the user can retry or cancel.
type Confirm struct {
	mu       sync.Mutex
	status   Status
	title    string
	message  string
	severity Severity
	busy     bool
	err      error
}

func (c *Confirm) Open(title, message string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if severity == "" {
		severity = SeverityDanger
	}
	c.status = StatusOpen
	c.title = title
	c.message = message
	c.severity = severity
	c.busy = false
	c.err = nil
}

func (c *Confirm) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return
	}
	c.status = StatusCancelled
	c.err = nil
}

// Accept runs action once. On success the dialog ends confirmed; on failure it
// stays open carrying the error.
func (c *Confirm) Accept(ctx context.Context, action func(context.Context) error) error {
	c.mu.Lock()
	if c.status != StatusOpen {
		c.mu.Unlock()
		return ErrNotOpen
	}
	if c.busy {
		c.mu.Unlock()
		return ErrNotOpen
	}
	c.busy = true
	c.err = nil
	c.mu.Unlock()

	err := action(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.err = err
		return err
	}
	c.status = StatusConfirmed
	return nil
}

func (c *Confirm) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Confirm) IsOpen() bool {
	return c.Status() == StatusOpen
}

func (c *Confirm) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Confirm) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// View is the render model of the dialog.
type View struct {
	Open     bool
	Title    string
	Message  string
	Severity Severity
	Busy     bool
	Error    string
}

func (c *Confirm) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		Open:     c.status == StatusOpen,
		Title:    c.title,
		Message:  c.message,
		Severity: c.severity,
		Busy:     c.busy,
	}
	if c.err != nil {
		v.Error = c.err.Error()
	}
	return v
}
