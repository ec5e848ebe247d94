// Package version reports the build version of pipekit binaries.
//
// Values are injected at link time and fall back to the VCS stamp Go
// embeds in the binary:
//
//	go build -ldflags "-X github.com/kbukum/pipekit/version.Version=1.0.0"
//
// The observability package uses String() as the service.version resource
// attribute.
package version
