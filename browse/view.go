package browse

import (
	"fmt"
	"strings"

	"github.com/ChaosForCurio/Xieriee-Store/catalog"
	"github.com/ChaosForCurio/Xieriee-Store/constants"
	"github.com/ChaosForCurio/Xieriee-Store/storeapi"
	"github.com/ChaosForCurio/Xieriee-Store/utils"
)

// MatchesSearch is a case-insensitive substring test of the search text
// against the app title. An empty search matches everything.
func MatchesSearch(app storeapi.App, search string) bool {
	return strings.Contains(strings.ToLower(app.Title), strings.ToLower(search))
}

// MatchesFilter matches the filter token against the app category by exact
// equality. An empty token or a discovery token matches everything.
func MatchesFilter(app storeapi.App, filter string) bool {
	if filter == "" || IsDiscoveryToken(filter) {
		return true
	}
	return app.Category == filter
}

// FilterApps narrows the catalog to the apps matching the query, preserving
// catalog order.
func FilterApps(apps []storeapi.App, query Query) []storeapi.App {
	return utils.Filter(apps, func(app storeapi.App) bool {
		return MatchesSearch(app, query.Search) && MatchesFilter(app, query.Filter)
	})
}

// Heading is the results grid title: the quoted search text, "Top Charts"
// for the trending token, else the token with its first underscore replaced
// by a space.
func Heading(query Query) string {
	if query.Search != "" {
		return fmt.Sprintf("Results for %q", query.Search)
	}
	if query.Filter == constants.FILTER_TRENDING {
		return "Top Charts"
	}
	return strings.Replace(query.Filter, "_", " ", 1)
}

// Select derives the listing page view from the catalog snapshot and the
// parsed query. It is deterministic and holds no state of its own.
func Select(snapshot catalog.Snapshot, query Query, strategy SectioningStrategy) View {
	view := View{Query: query}

	switch snapshot.State {
	case catalog.StateLoading:
		view.Mode = ModeLoading
		return view
	case catalog.StateFailed:
		view.Mode = ModeFailed
		view.Err = snapshot.Err
		return view
	}

	if query.Active() {
		view.Mode = ModeResults
		view.Results = FilterApps(snapshot.Apps, query)
		view.Heading = Heading(query)
		view.Subheading = fmt.Sprintf("%d results found", len(view.Results))
		return view
	}

	view.Mode = ModeHome
	if len(snapshot.Apps) > constants.HERO_APP_COUNT {
		view.Hero = snapshot.Apps[:constants.HERO_APP_COUNT]
	} else {
		view.Hero = snapshot.Apps
	}
	view.Sections = strategy.Sections(snapshot.Apps)
	return view
}
