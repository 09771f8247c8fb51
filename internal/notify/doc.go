// Package notify holds the transient status messages ("toasts") that every
// browse and cart operation raises on success or failure.
//
// A Center keeps the latest toast plus a bounded history and is shared by the
// browse state, the cart state and the UI. Components post through the Sink
// interface; the UI polls Snapshot on its refresh tick and renders the
// current toast until it expires. Toasts are separate from the error fields
// the state containers keep: a toast is feedback, the error field is state.
//
// Center is safe for concurrent use.
package notify
