package cell

import "github.com/google/uuid"

// Tag identifies the family of cells an owner controls. The zero Tag marks
// the marker-singleton family used by goroutine and process owners;
// instance owners mint tags carrying their own ID.
type Tag[M any] struct {
	id uuid.UUID
}

// NewTag wraps id in a Tag so third-party owner kinds can mint and
// validate their own cell families.
func NewTag[M any](id uuid.UUID) Tag[M] {
	return Tag[M]{id: id}
}

// ID returns the identity the tag carries. The zero UUID marks the
// marker-singleton family.
func (t Tag[M]) ID() uuid.UUID {
	return t.id
}

// Owner is the contract between cells and the tokens that guard them. The
// borrow operations are generic over this interface, so code that consumes
// cells stays agnostic to the owner kind backing them.
type Owner[M any] interface {
	// NewTag mints the ownership tag stamped on cells created through NewIn.
	NewTag() Tag[M]
	// Owns reports whether cells stamped with tag belong to this owner.
	Owns(tag Tag[M]) bool
	// State exposes the owner's borrow ledger.
	State() *State
}

// Cell is a storage box for one value of type T, bound to marker M. Cells
// are shared by pointer and never copied; any number of goroutines may
// hold a *Cell because reaching the value always goes through an owner.
type Cell[M, T any] struct {
	tag   Tag[M]
	value T
}

// New returns a cell in the marker-singleton family. It is reachable
// through any goroutine or process owner for M; instance owners reject it.
func New[M, T any](v T) *Cell[M, T] {
	return &Cell[M, T]{value: v}
}

// NewIn returns a cell stamped with o's tag. Instance owners require this
// constructor; for singleton owners it is equivalent to New.
func NewIn[M, T any](o Owner[M], v T) *Cell[M, T] {
	return &Cell[M, T]{tag: o.NewTag(), value: v}
}
