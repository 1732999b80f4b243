// Package meta holds build-time metadata for imagerefresh.
package meta

// Version is the release version of imagerefresh, overridden at build time
// via -ldflags "-X github.com/nicholas-fedor/imagerefresh/internal/meta.Version=...".
var Version = "dev"
