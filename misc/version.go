// Package misc keeps program identity information set at build time.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Values below are overwritten with -ldflags "-X blockcss/misc.version=..." by
// the build.
var (
	version = "dev"
	githash = "unknown"
	appname = ""
)

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from.
func GetGitHash() string {
	return githash
}

// GetAppName returns program name without extension, used for naming
// logs and reports.
func GetAppName() string {
	if len(appname) > 0 {
		return appname
	}
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, filepath.Ext(name))
}
