// Package fuzztests houses fuzz targets for the template compiler and the
// line wrapper. They guard against panics and check round-trip invariants on
// arbitrary input.
package fuzztests
