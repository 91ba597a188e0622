// Package naming derives filesystem-safe output names from album titles.
package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const fallbackTitle = "Untitled Album"

var unsafeReplacer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-",
	"?", "", "\"", "", "<", "", ">", "", "|", "",
)

// DisplayTitle normalizes an album name for logging and notifications.
func DisplayTitle(albumName string) string {
	title := strings.Join(strings.Fields(albumName), " ")
	if title == "" {
		title = fallbackTitle
	}
	return cases.Title(language.Und, cases.NoLower).String(title)
}

// OutputBase returns the base filename (without extension) for an album's
// final video.
func OutputBase(albumName string) string {
	base := unsafeReplacer.Replace(DisplayTitle(albumName))
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		base = fallbackTitle
	}
	return base
}
