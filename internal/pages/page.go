// Package pages composes list state, dialogs and the error banner of one
// resource screen.
package pages

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/forms"
	"catalog-admin/internal/listing"
	"catalog-admin/internal/modal"
	"catalog-admin/internal/models"
)

// Screen is a mounted resource page as seen by handlers and the CLI.
type Screen interface {
	Name() string
	Title() string

	Mount(ctx context.Context) error
	Refresh(ctx context.Context) error
	SetPage(ctx context.Context, page int) error
	SetLimit(ctx context.Context, limit int) error
	Search(ctx context.Context, term string) error
	FilterStatus(ctx context.Context, status string) error
	SortBy(ctx context.Context, field string) error

	OpenCreate(ctx context.Context) error
	OpenEdit(ctx context.Context, id string) error
	OpenDelete(id string) error
	CloseModal()
	BindForm(in forms.Input)
	SubmitForm(ctx context.Context) error
	ConfirmDelete(ctx context.Context) error
	DismissError()

	View() View
}

type Options struct {
	Limit int
	// Initial presets the list state before the first fetch. Limit and the
	// definition's default sort fill whatever it leaves empty.
	Initial  listing.State
	Logger   *logrus.Logger
	Observer Observer
}

type Page[T models.Entity] struct {
	def      Definition[T]
	client   Client[T]
	list     *listing.Controller[T]
	logger   *logrus.Logger
	observer Observer

	mu      sync.Mutex
	state   modal.State[T]
	form    *forms.Modal
	confirm modal.Confirm
	banner  string
}

// New builds a page for def over client. Nothing is fetched until Mount.
func New[T models.Entity](def Definition[T], client Client[T], opts Options) *Page[T] {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	initial := opts.Initial
	if initial.Limit == 0 {
		initial.Limit = opts.Limit
	}
	if initial.SortBy == "" {
		initial.SortBy = def.DefaultSort
		initial.SortOrder = apiclient.SortAsc
		if def.DefaultDesc {
			initial.SortOrder = apiclient.SortDesc
		}
	}
	list := listing.NewController[T](client, initial, logger)

	return &Page[T]{
		def:      def,
		client:   client,
		list:     list,
		logger:   logger,
		observer: opts.Observer,
	}
}

func (p *Page[T]) Name() string  { return p.def.Name }
func (p *Page[T]) Title() string { return p.def.Title }

// List exposes the controller for read access.
func (p *Page[T]) List() *listing.Controller[T] {
	return p.list
}

// Modal returns the current dialog state.
func (p *Page[T]) Modal() modal.State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Banner is the page-level error, empty when dismissed.
func (p *Page[T]) Banner() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.banner
}

func (p *Page[T]) fail(err error) error {
	if err != nil {
		p.mu.Lock()
		p.banner = Describe(err)
		p.mu.Unlock()
	}
	return err
}

// Mount performs the first fetch.
func (p *Page[T]) Mount(ctx context.Context) error {
	return p.fail(p.list.Load(ctx))
}

func (p *Page[T]) Refresh(ctx context.Context) error {
	return p.fail(p.list.Refresh(ctx))
}

func (p *Page[T]) SetPage(ctx context.Context, page int) error {
	return p.fail(p.list.SetPage(ctx, page))
}

func (p *Page[T]) SetLimit(ctx context.Context, limit int) error {
	return p.fail(p.list.SetLimit(ctx, limit))
}

func (p *Page[T]) Search(ctx context.Context, term string) error {
	return p.fail(p.list.Search(ctx, term))
}

func (p *Page[T]) FilterStatus(ctx context.Context, status string) error {
	return p.fail(p.list.FilterStatus(ctx, status))
}

func (p *Page[T]) SortBy(ctx context.Context, field string) error {
	for _, col := range p.def.Columns {
		if col.Key == field && col.Sortable {
			return p.fail(p.list.SortBy(ctx, field))
		}
	}
	return p.fail(fmt.Errorf("cannot sort %s by %q", p.def.Name, field))
}

// OpenCreate opens an empty form, closing any other dialog.
func (p *Page[T]) OpenCreate(ctx context.Context) error {
	return p.openForm(ctx, forms.ModeCreate, modal.Create[T](), nil)
}

// OpenEdit opens the form for a row of the current page.
func (p *Page[T]) OpenEdit(ctx context.Context, id string) error {
	entity, ok := p.list.Find(id)
	if !ok {
		return p.fail(&NotFoundError{Resource: p.def.Singular, ID: id})
	}
	return p.openForm(ctx, forms.ModeEdit, modal.Edit(entity), &entity)
}

func (p *Page[T]) openForm(ctx context.Context, mode forms.Mode, state modal.State[T], entity *T) error {
	draft := p.def.NewDraft(entity)

	p.mu.Lock()
	p.state = state
	p.form = forms.NewModal(mode, draft)
	p.confirm.Cancel()
	p.mu.Unlock()

	if prep, ok := draft.(forms.Preparer); ok {
		if err := prep.Prepare(ctx); err != nil {
			p.logger.WithError(err).WithFields(logrus.Fields{
				"resource": p.def.Name,
				"mode":     mode.String(),
			}).Warn("Failed to prepare form")
			return p.fail(err)
		}
	}
	return nil
}

// OpenDelete asks for confirmation before deleting a row.
func (p *Page[T]) OpenDelete(id string) error {
	entity, ok := p.list.Find(id)
	if !ok {
		return p.fail(&NotFoundError{Resource: p.def.Singular, ID: id})
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = modal.ConfirmDelete(entity)
	p.form = nil
	p.confirm.Open(
		"Delete "+p.def.Singular,
		fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", p.def.Label(entity)),
		modal.SeverityDanger,
	)
	return nil
}

// CloseModal discards whatever dialog is open.
func (p *Page[T]) CloseModal() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = modal.Close[T]()
	p.form = nil
	p.confirm.Cancel()
}

// BindForm applies input to the open form, if any.
func (p *Page[T]) BindForm(in forms.Input) {
	p.mu.Lock()
	form := p.form
	p.mu.Unlock()
	if form != nil {
		form.Bind(in)
	}
}

// SubmitForm sends the open form. Failures keep the dialog open.
func (p *Page[T]) SubmitForm(ctx context.Context) error {
	p.mu.Lock()
	form, state := p.form, p.state
	p.mu.Unlock()
	if form == nil {
		return ErrModalClosed
	}

	action, entityID := ActionCreate, ""
	if target, ok := state.Target(); ok && state.Kind() == modal.Editing {
		action, entityID = ActionUpdate, target.EntityID()
	}

	err := form.Submit(ctx, func(ctx context.Context, payload apiclient.Payload) error {
		switch action {
		case ActionUpdate:
			updated, err := p.client.Update(ctx, entityID, payload)
			if err != nil {
				return err
			}
			p.list.Merge(*updated)
		default:
			created, err := p.client.Create(ctx, payload)
			if err != nil {
				return err
			}
			entityID = (*created).EntityID()
			p.list.Prepend(*created)
		}
		return nil
	})

	var verr *forms.ValidationError
	if errors.As(err, &verr) || errors.Is(err, forms.ErrSubmitting) {
		return err
	}

	p.notify(ctx, action, entityID, err)
	if err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"resource": p.def.Name,
			"action":   action,
			"id":       entityID,
		}).Error("Failed to submit form")
		return p.fail(err)
	}

	p.mu.Lock()
	if p.form == form {
		p.state = modal.Close[T]()
		p.form = nil
	}
	p.mu.Unlock()
	return nil
}

// ConfirmDelete deletes the targeted entity. The row leaves the list only
// after the backend confirms, then the page is refetched.
func (p *Page[T]) ConfirmDelete(ctx context.Context) error {
	p.mu.Lock()
	state := p.state
	p.mu.Unlock()

	target, ok := state.Target()
	if state.Kind() != modal.ConfirmingDelete || !ok {
		return ErrModalClosed
	}
	id := target.EntityID()

	err := p.confirm.Accept(ctx, func(ctx context.Context) error {
		return p.client.Delete(ctx, id)
	})
	if errors.Is(err, modal.ErrNotOpen) {
		return err
	}
	p.notify(ctx, ActionDelete, id, err)
	if err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"resource": p.def.Name,
			"id":       id,
		}).Error("Failed to delete")
		return p.fail(err)
	}

	p.list.Remove(id)
	p.mu.Lock()
	p.state = modal.Close[T]()
	p.mu.Unlock()

	return p.fail(p.list.Refresh(ctx))
}

func (p *Page[T]) DismissError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banner = ""
}

func (p *Page[T]) notify(ctx context.Context, action Action, id string, err error) {
	if p.observer == nil {
		return
	}
	p.observer.Observe(ctx, Event{
		Resource:   p.def.Name,
		Action:     action,
		EntityID:   id,
		Actor:      ActorFrom(ctx),
		Err:        err,
		OccurredAt: time.Now().UTC(),
	})
}
