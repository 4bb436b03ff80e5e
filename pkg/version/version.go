package version

// Tag is the release version, overridden at build time with
// -ldflags="-X 'github.com/ChaosForCurio/Xieriee-Store/pkg/version.Tag=v1.2.0'"
var Tag = "v0.1.0"
