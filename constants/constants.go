package constants

import "time"

// shared constants used by multiple packages

const (
	APP_IDENTIFIER = "xieriee-store"
)

const (
	PLATFORM_WINDOWS = "windows"
	PLATFORM_ANDROID = "android"
	PLATFORM_OTHER   = "other"
)

// Discovery tokens are display-label filters only. They never participate in
// category equality matching.
const (
	FILTER_TRENDING       = "trending"
	FILTER_NEW_RELEASES   = "new_releases"
	FILTER_EDITORS_CHOICE = "editors_choice"
)

func GetDiscoveryTokens() []string {
	return []string{
		FILTER_TRENDING,
		FILTER_NEW_RELEASES,
		FILTER_EDITORS_CHOICE,
	}
}

const (
	// number of apps shown in the hero carousel on the store home
	HERO_APP_COUNT = 5
	// number of placeholder cards rendered while the catalog loads
	SKELETON_CARD_COUNT = 6
	// how long the publish surface shows the success state before closing
	UPLOAD_SUCCESS_CLOSE_DELAY = 2 * time.Second
)

const (
	UPSTREAM_REQUEST_TIMEOUT = 30 * time.Second
	// session lifetime for publisher sign-ins
	PUBLISHER_SESSION_TTL = 12 * time.Hour
	SESSION_COOKIE_NAME   = "token"
)
