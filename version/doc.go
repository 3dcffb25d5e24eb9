// Package version carries build metadata set through ldflags:
//
//	go build -ldflags "\
//	  -X github.com/samujjwal/rental-sub006/version.Version=1.2.3 \
//	  -X github.com/samujjwal/rental-sub006/version.Revision=abc123 \
//	  -X 'github.com/samujjwal/rental-sub006/version.BuiltAt=$(date)'"
//
// Unset values fall back to the VCS stamp the Go toolchain embeds.
package version
