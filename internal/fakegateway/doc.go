// Package fakegateway is an in-memory implementation of the masterpieces and
// cart HTTP API for local development and end-to-end tests. Adding to an
// existing line is additive and every cart total is computed here, the same
// way the real gateway behaves.
package fakegateway
