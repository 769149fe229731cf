// Package cell provides marker-tagged storage cells whose contents are
// reachable only through an owner token. A cell carries no lock and no
// borrow state of its own; the owner's ledger arbitrates every access, so
// holding a *Cell grants nothing by itself. Aliasing rules that a static
// borrow checker would prove at compile time are enforced here at run
// time: violations are caller logic errors and panic with sentinel errors
// from the errors package.
package cell
