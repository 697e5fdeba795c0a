// Package version reports the cypherstream build for --version.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/cypherstream/version.Version=1.0.0"
//
// Missing values fall back to the VCS stamp Go embeds in the binary.
package version
