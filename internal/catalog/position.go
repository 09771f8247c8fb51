package catalog

import "github.com/five82/atelier/internal/masterpieces"

// Position is where the browser is: the collection list, or a page inside a
// selected collection. Only Listing and Viewing implement it.
type Position interface {
	isPosition()
}

// Listing is the collection list. It carries no page index.
type Listing struct{}

func (Listing) isPosition() {}

// Viewing is a selected collection and the index of the page on screen.
// Values are only built by the browser, which keeps the index in range.
type Viewing struct {
	collection masterpieces.ArtCollection
	index      int
}

func (Viewing) isPosition() {}

// Collection returns the selected collection.
func (v Viewing) Collection() masterpieces.ArtCollection {
	return v.collection
}

// PageIndex returns the zero-based page index.
func (v Viewing) PageIndex() int {
	return v.index
}

// PageCount returns the number of pages in the selected collection.
func (v Viewing) PageCount() int {
	return len(v.collection.Pages)
}

// Artwork returns the page at the current index.
func (v Viewing) Artwork() (masterpieces.ArtworkPage, bool) {
	if v.index < 0 || v.index >= len(v.collection.Pages) {
		return masterpieces.ArtworkPage{}, false
	}
	return v.collection.Pages[v.index], true
}

// CanNext reports whether a later page exists.
func (v Viewing) CanNext() bool {
	return v.index < len(v.collection.Pages)-1
}

// CanPrev reports whether an earlier page exists.
func (v Viewing) CanPrev() bool {
	return v.index > 0
}
