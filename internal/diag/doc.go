// Package diag reads atelier's own log file for the diagnostics view.
//
// Read tails the file with a ring buffer, so memory stays bounded by the
// number of lines requested no matter how large the log grows. Parse splits
// a standard-logger line ("atelier 2006/01/02 15:04:05 cart: ...") into a
// timestamp, a component and a message, and infers a level from the message
// text since the standard logger has none.
package diag
