// Package version holds the build version, set with
//
//	go build -ldflags "-X lacthermo/internal/version.Version=v1.2.3"
package version

// Version is overwritten at link time.
var Version = "dev"
