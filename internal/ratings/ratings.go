// Package ratings is the static guide explaining what each star rating means.
package ratings

import "strings"

// Rating is one row of the guide.
type Rating struct {
	Stars       int
	Description string
}

var guide = []Rating{
	{1, "Very bad. I struggled to finish it and should have given up."},
	{2, "Did not like it at all and would not recommend it, though someone else might."},
	{3, "An OK book. Not really for me, but I can see its strengths."},
	{4, "Very good. Enjoyed it and recommend it, though some details could be different."},
	{5, "Loved everything about it. Recommended with my eyes closed."},
}

// Guide returns the five ratings from one to five stars.
func Guide() []Rating {
	return append([]Rating(nil), guide...)
}

// Describe returns the description for stars, or "" outside 1-5.
func Describe(stars int) string {
	if stars < 1 || stars > len(guide) {
		return ""
	}
	return guide[stars-1].Description
}

// Stars renders n star glyphs.
func Stars(n int) string {
	return strings.Repeat("⭐", max(n, 0))
}
