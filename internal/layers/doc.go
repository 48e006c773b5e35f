// Package layers implements the named, ordered, visibility-aware layer stack
// that routes image transforms to the current layer.
//
// Invariants maintained by Stack:
//   - Layer names are unique; layer IDs are stable for the life of the layer.
//   - The current layer is either unset or an existing layer.
//   - All images held by the stack share one width and height.
//
// The stack never reads or writes files; collaborators decode grids with
// the codec package and hand them to LoadIntoCurrent.
package layers
