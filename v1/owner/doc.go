// Package owner provides the owner kinds that guard access to cells:
// goroutine-scoped singletons, process-wide singletons, and free-floating
// instance owners. Exactly one live owner exists per marker within its
// scope for the singleton kinds; instance owners trade the singleton
// discipline for runtime identity checks on every cell.
//
// Bind each marker type to one owner kind. The goroutine and process kinds
// share the marker-singleton cell family, so mixing kinds on one marker
// narrows the discipline to what each kind checks on its own. The
// goroutine kind arbitrates views within its goroutine only: handing a
// cell to another goroutine must hand over access with it. Cells that are
// genuinely shared between goroutines belong under an instance owner,
// whose single ledger arbitrates all of them.
package owner
