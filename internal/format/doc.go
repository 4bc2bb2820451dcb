// Package format holds the number, duration and progress formatting shared
// by the CLI presenters.
package format
