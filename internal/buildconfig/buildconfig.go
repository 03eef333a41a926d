package buildconfig

import "fmt"

// Set with -ldflags "-X github.com/Bronc-X/antianxiety/internal/buildconfig.version=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = ""
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// VersionInfo is reported by /health and `calmctl version`.
func VersionInfo() map[string]string {
	info := map[string]string{
		"version": version,
		"commit":  commit,
	}
	if date != "" {
		info["built"] = date
	}
	return info
}

func String() string {
	if date == "" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return fmt.Sprintf("%s (%s, built %s)", version, commit, date)
}
