// Package cart keeps a user's cart in step with the gateway.
//
// A State never does its own totals. Each mutation sends one request, takes
// the cart the gateway answers with as the whole truth, and publishes on a
// Bus. Every State subscribed to that bus refetches, so two views of the
// same cart converge without sharing memory. The publishing State refetches
// too; the second read is redundant but harmless.
//
// Overlapping mutations are not ordered: whichever response lands last
// wins. Clearing is gated on a Confirmer, and a refusal sends nothing.
package cart
