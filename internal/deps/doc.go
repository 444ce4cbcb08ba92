// Package deps reports whether the external binaries vjoin drives are
// installed and which release they are.
package deps
