// Package ui is the Bubble Tea front end: a collection gallery with a page
// viewer, the cart with booking, and a diagnostics log view. Rendering reads
// snapshots from the catalog, cart and notify packages; every network call
// runs as a tea.Cmd.
package ui
