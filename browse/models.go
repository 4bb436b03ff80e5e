package browse

import (
	"net/url"
	"slices"

	"github.com/ChaosForCurio/Xieriee-Store/constants"
	"github.com/ChaosForCurio/Xieriee-Store/storeapi"
)

type Mode string

const (
	ModeLoading Mode = "LOADING"
	ModeResults Mode = "RESULTS"
	ModeHome    Mode = "HOME"
	ModeFailed  Mode = "FAILED"
)

// Query is the view query derived from the listing page URL. It is re-parsed
// on every request; nothing caches a "current filter".
type Query struct {
	Search string
	Filter string
}

// ParseQuery reads ?search= and ?filter= from the listing page URL.
// ?category= fills the same semantic slot as ?filter= and is only consulted
// when filter is absent.
func ParseQuery(values url.Values) Query {
	filter := values.Get("filter")
	if filter == "" {
		filter = values.Get("category")
	}
	return Query{
		Search: values.Get("search"),
		Filter: filter,
	}
}

// Active reports whether the query selects the results grid instead of the
// curated store home.
func (q Query) Active() bool {
	return q.Search != "" || q.Filter != ""
}

// IsDiscoveryToken reports whether token is one of the reserved discovery
// labels. Discovery tokens override the results heading but never constrain
// by category.
func IsDiscoveryToken(token string) bool {
	return slices.Contains(constants.GetDiscoveryTokens(), token)
}

// Section is one curated row on the store home: a title, the apps to show in
// catalog order, and an optional "see all" link.
type Section struct {
	Title string
	Apps  []storeapi.App
	Link  string
}

// View is the fully derived render model for the listing page. It is a pure
// function of (catalog snapshot, query); handlers and templates hold no
// state beyond it.
type View struct {
	Mode  Mode
	Query Query

	// Results mode
	Heading    string
	Subheading string
	Results    []storeapi.App

	// Home mode
	Hero     []storeapi.App
	Sections []Section

	// Failed mode
	Err error
}
