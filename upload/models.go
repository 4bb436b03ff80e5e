package upload

import (
	"strings"

	"github.com/ChaosForCurio/Xieriee-Store/constants"
)

type State string

const (
	StateIdle       State = "IDLE"
	StateEditing    State = "EDITING"
	StateSubmitting State = "SUBMITTING"
	StateSuccess    State = "SUCCESS"
	StateFailure    State = "FAILURE"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const (
	SuccessMessage        = "App successfully published to store!"
	GenericFailureMessage = "Upload failed. Please try again."
)

// Status is the inline feedback shown next to the publish action.
type Status struct {
	Type    string
	Message string
}

// Draft is the transient, locally held state of an in-progress publish form.
// It exists only while the publish surface is open.
type Draft struct {
	Filename    string
	File        []byte
	Title       string
	Developer   string
	Description string
	CategoryId  string
}

func (d Draft) HasFile() bool {
	return len(d.File) > 0
}

// DetectPlatform classifies the visitor's environment from its User-Agent.
// Pure and one-shot; computed once when the publish surface mounts.
func DetectPlatform(userAgent string) string {
	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "windows") {
		return constants.PLATFORM_WINDOWS
	}
	if strings.Contains(ua, "android") {
		return constants.PLATFORM_ANDROID
	}
	return constants.PLATFORM_OTHER
}

// AllowedExtension returns the package extension accepted for a platform.
func AllowedExtension(platform string) string {
	if platform == constants.PLATFORM_WINDOWS {
		return ".exe"
	}
	return ".apk"
}
