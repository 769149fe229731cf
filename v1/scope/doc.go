// Package scope tracks which owners are live for each marker type. It keeps
// two singleton registries, one keyed per goroutine and one process-wide,
// and resolves marker types to their runtime identity. Owner constructors
// claim here before handing out a token and release on teardown.
package scope
