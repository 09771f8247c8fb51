// Package catalog holds the browsing state for the collection list.
//
// A Cache keeps the full list for a few minutes so remounting a view does not
// refetch it. A Browser consults the cache, falls back to the gateway, and
// tracks where the user is: the list (Listing) or a page inside a selected
// collection (Viewing). Page moves are clamped; hitting either end posts an
// info toast and returns a boundary error instead of moving.
//
// A failed fetch never empties a list that loaded earlier. The error is
// recorded on the browser and posted as a toast; the previous collections
// stay on screen.
package catalog
