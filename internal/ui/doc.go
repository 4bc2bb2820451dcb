// Package ui provides the color theme used by the terminal presenters. It
// is shared by packages that style output so that business logic stays
// free of presentation concerns.
package ui
