// Package modal holds the dialog state shared by the resource pages.
package modal

type Kind int

const (
	Closed Kind = iota
	Creating
	Editing
	ConfirmingDelete
)

func (k Kind) String() string {
	switch k {
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	case ConfirmingDelete:
		return "confirming-delete"
	default:
		return "closed"
	}
}

// State is the single dialog a page may show. Target is set only for Editing
// and ConfirmingDelete, so an edit form can never be open without its entity.
type State[T any] struct {
	kind   Kind
	target *T
}

func Close[T any]() State[T] {
	return State[T]{}
}

func Create[T any]() State[T] {
	return State[T]{kind: Creating}
}

func Edit[T any](entity T) State[T] {
	return State[T]{kind: Editing, target: &entity}
}

func ConfirmDelete[T any](entity T) State[T] {
	return State[T]{kind: ConfirmingDelete, target: &entity}
}

func (s State[T]) Kind() Kind {
	return s.kind
}

func (s State[T]) Open() bool {
	return s.kind != Closed
}

// Target returns the entity being edited or deleted.
func (s State[T]) Target() (T, bool) {
	if s.target == nil {
		var zero T
		return zero, false
	}
	return *s.target, true
}
