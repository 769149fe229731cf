package scope

import (
	"reflect"

	"github.com/petermattis/goid"
)

// Marker resolves the marker type M to its runtime identity. Two owners
// collide exactly when their markers resolve to the same reflect.Type;
// distinct instantiations of a generic marker are distinct identities.
func Marker[M any]() reflect.Type {
	return reflect.TypeOf((*M)(nil)).Elem()
}

// GoroutineID returns the numeric ID of the calling goroutine.
func GoroutineID() uint64 {
	return uint64(goid.Get())
}
