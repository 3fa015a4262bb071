// Package version reports the requester build version.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/requester/version.Version=1.2.0" ./cmd/requester
//
// Fields left empty are filled from the module's embedded VCS settings.
package version
