// Package preflight provides readiness checks for the binaries and
// filesystem paths vjoin depends on.
//
// The CLI "vjoin doctor" command runs every check and renders the results.
// "vjoin join" checks the output directory before starting ffmpeg so an
// unwritable destination is reported as such instead of as a tool failure.
package preflight
