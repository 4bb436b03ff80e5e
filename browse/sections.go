package browse

import (
	"slices"

	"github.com/ChaosForCurio/Xieriee-Store/storeapi"
)

// SectioningStrategy turns the unfiltered catalog into the ordered curated
// rows of the store home. The default is a presentation convenience over a
// single list; a ranking or recommendation service can be substituted
// without touching the rendering contract.
type SectioningStrategy interface {
	Sections(apps []storeapi.App) []Section
}

// fixedSliceStrategy builds the home rows from fixed index slices of the
// catalog in its arrival order.
type fixedSliceStrategy struct{}

func NewFixedSliceStrategy() SectioningStrategy {
	return &fixedSliceStrategy{}
}

func (s *fixedSliceStrategy) Sections(apps []storeapi.App) []Section {
	topRated := slice(apps, 0, 10)
	topRated = slices.Clone(topRated)
	slices.Reverse(topRated)

	return []Section{
		{Title: "Recommended for you", Apps: slice(apps, 0, 8)},
		{Title: "New & updated games", Apps: slice(apps, 2, 10), Link: "/?filter=new_releases"},
		{Title: "Suggested for you", Apps: slice(apps, 5, 15)},
		{Title: "Top rated apps", Apps: topRated, Link: "/?filter=editors_choice"},
	}
}

// slice is apps[from:to) clamped to the catalog's length.
func slice(apps []storeapi.App, from, to int) []storeapi.App {
	if from > len(apps) {
		from = len(apps)
	}
	if to > len(apps) {
		to = len(apps)
	}
	return apps[from:to]
}
