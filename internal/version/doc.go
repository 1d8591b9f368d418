// Package version holds the build metadata of the thermostat binary.
//
// Version, Commit and BuildTime are set with -ldflags "-X ..." at release time.
package version
