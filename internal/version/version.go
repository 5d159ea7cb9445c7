package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Build-time overrides:
//
//	go build -ldflags="-X github.com/muurk/upnpctl/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/upnpctl/internal/version.Commit=abc123"
//
// Without them, values come from VCS build info, falling back to a dated
// "dev" version.
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

// Product is the product name sent in UPnP product tokens.
const Product = "upnpctl"

func init() {
	if Version == "" || Commit == "" {
		populateFromBuildInfo()
	}

	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func populateFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	var vcsRevision, vcsModified, vcsTime string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcsRevision = setting.Value
		case "vcs.modified":
			vcsModified = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	if Commit == "" && vcsRevision != "" {
		Commit = vcsRevision
		if len(Commit) > 7 {
			Commit = Commit[:7]
		}
		if vcsModified == "true" {
			Commit += "-dirty"
		}
	}

	if Version == "" && vcsTime != "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent returns the UPnP product token sent in the USER-AGENT header of
// M-SEARCH requests and HTTP requests to devices, in the
// "OS/version UPnP/1.1 product/version" form required by UDA 1.1.
func UserAgent() string {
	return fmt.Sprintf("%s/%s UPnP/1.1 %s/%s", runtime.GOOS, goVersion(), Product, Version)
}

func goVersion() string {
	v := runtime.Version()
	if len(v) > 2 && v[:2] == "go" {
		return v[2:]
	}
	return v
}
