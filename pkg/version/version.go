// Package version holds build metadata set at link time.
package version

import (
	"fmt"
	"runtime"
)

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/cloudposse/invctl/pkg/version.Version=v1.2.3"
var Version = "0.0.0-dev"

// String returns the version line printed by --version.
func String() string {
	return fmt.Sprintf("invctl %s on %s/%s", Version, runtime.GOOS, runtime.GOARCH)
}
