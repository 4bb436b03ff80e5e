package catalog

import (
	"context"

	"github.com/ChaosForCurio/Xieriee-Store/logger"
	"github.com/ChaosForCurio/Xieriee-Store/storeapi"
)

type State string

const (
	StateLoading State = "LOADING"
	StateLoaded  State = "LOADED"
	StateFailed  State = "FAILED"
)

// Snapshot is the catalog for one page visit: fetched on view activation,
// discarded on navigation. A failed load is kept distinct from a successful
// load with zero results so callers can tell "no apps exist" from "the
// catalog could not be fetched".
type Snapshot struct {
	State State
	Apps  []storeapi.App
	Err   error
}

func Loading() Snapshot {
	return Snapshot{State: StateLoading}
}

func Loaded(apps []storeapi.App) Snapshot {
	return Snapshot{State: StateLoaded, Apps: apps}
}

func Failed(err error) Snapshot {
	return Snapshot{State: StateFailed, Err: err}
}

func (s Snapshot) Loaded() bool {
	return s.State == StateLoaded
}

type Loader struct {
	client storeapi.Client
}

func NewLoader(client storeapi.Client) *Loader {
	return &Loader{client: client}
}

// Load issues the single full-collection read for the current page view. The
// fetch is scoped to ctx, so navigating away (or the client disconnecting)
// cancels the in-flight request instead of discarding its result.
func (l *Loader) Load(ctx context.Context) Snapshot {
	apps, err := l.client.ListApps(ctx)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to load app catalog")
		return Failed(err)
	}
	return Loaded(apps)
}
