// Package version exposes build metadata stamped at link time.
package version

// Overridden via -ldflags, e.g.
// -X 'bandwatch/internal/core/version.version=v0.3.0'
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for this binary.
func Info() BuildInfo {
	return BuildInfo{
		Service: "bandwatch",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}
