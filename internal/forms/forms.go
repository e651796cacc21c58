// Package forms holds the draft state, validation and submission packaging of
// the create/edit dialogs.
package forms

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"catalog-admin/internal/apiclient"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

type FieldKind string

const (
	KindText        FieldKind = "text"
	KindTextarea    FieldKind = "textarea"
	KindNumber      FieldKind = "number"
	KindURL         FieldKind = "url"
	KindCheckbox    FieldKind = "checkbox"
	KindSelect      FieldKind = "select"
	KindMultiSelect FieldKind = "multiselect"
	KindFile        FieldKind = "file"
)

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Field is the render model of one input.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Value    string
	Checked  bool
	Required bool
	// Uppercase marks inputs that are transformed as the user types.
	Uppercase bool
	MaxLength int
	Options   []Option
	Accept    string
	// URLName is the companion URL input of a file field.
	URLName string
	Preview string
	Error   string
}

// Input is one round of user edits: posted values plus newly selected files.
type Input struct {
	Values url.Values
	Files  map[string]*apiclient.FilePart
}

func (in Input) Has(name string) bool {
	_, ok := in.Values[name]
	return ok
}

func (in Input) Get(name string) string {
	return in.Values.Get(name)
}

func (in Input) List(name string) []string {
	var out []string
	for _, v := range in.Values[name] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (in Input) Bool(name string) bool {
	switch strings.ToLower(in.Values.Get(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func (in Input) File(name string) *apiclient.FilePart {
	if in.Files == nil {
		return nil
	}
	return in.Files[name]
}

// FieldErrors maps an input name to its message.
type FieldErrors map[string]string

type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

var ErrSubmitting = errors.New("submission already in progress")

// Draft is the editable copy of one entity.
type Draft interface {
	Fields() []Field
	Bind(in Input)
	Validate() FieldErrors
	Payload() apiclient.Payload
}

// Preparer drafts need data (select options) before they can render.
type Preparer interface {
	Prepare(ctx context.Context) error
}

// Stager drafts move attachments out of band after validation.
type Stager interface {
	Stage(ctx context.Context) error
}

// SubmitFunc performs the network call for a packaged payload.
type SubmitFunc func(ctx context.Context, p apiclient.Payload) error

// Modal wraps a draft with its validation errors and submitting flag. It never
// touches the network itself.
type Modal struct {
	mode  Mode
	draft Draft

	mu         sync.Mutex
	errors     FieldErrors
	submitting atomic.Bool
}

// NewModal opens a form dialog over draft.
func NewModal(mode Mode, draft Draft) *Modal {
	return &Modal{mode: mode, draft: draft}
}

func (m *Modal) Mode() Mode {
	return m.mode
}

func (m *Modal) Draft() Draft {
	return m.draft
}

// Bind applies one round of input to the draft.
func (m *Modal) Bind(in Input) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.Bind(in)
}

// Errors returns a copy of the last validation errors.
func (m *Modal) Errors() FieldErrors {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(FieldErrors, len(m.errors))
	for k, v := range m.errors {
		out[k] = v
	}
	return out
}

// Submitting reports whether a submission is in flight.
func (m *Modal) Submitting() bool {
	return m.submitting.Load()
}

// Submit validates the draft and hands its payload to fn. Validation failures
// come back as *ValidationError and fn is not called.
func (m *Modal) Submit(ctx context.Context, fn SubmitFunc) error {
	if !m.submitting.CompareAndSwap(false, true) {
		return ErrSubmitting
	}
	defer m.submitting.Store(false)

	payload, err := m.prepare(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, payload)
}

// prepare validates, stages and packages the draft while holding the lock, so
// Bind cannot change the draft between the checks and the payload.
func (m *Modal) prepare(ctx context.Context) (apiclient.Payload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if errs := m.draft.Validate(); len(errs) > 0 {
		m.errors = errs
		return apiclient.Payload{}, &ValidationError{Fields: errs}
	}
	m.errors = nil

	if s, ok := m.draft.(Stager); ok {
		if err := s.Stage(ctx); err != nil {
			return apiclient.Payload{}, err
		}
	}
	return m.draft.Payload(), nil
}

// Fields returns the render model with current errors attached.
func (m *Modal) Fields() []Field {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields := m.draft.Fields()
	for i := range fields {
		if msg, ok := m.errors[fields[i].Name]; ok {
			fields[i].Error = msg
		}
	}
	return fields
}
