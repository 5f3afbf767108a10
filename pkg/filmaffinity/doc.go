// Package filmaffinity provides an HTTP client and HTML parser for the
// public FilmAffinity user-ratings listing.
//
// The client performs plain GET requests with browser-like headers and maps
// transport and status failures to a typed Error. The parser extracts rating
// records from one listing page, keyed on the stable class attributes the
// site uses for its rating rows, and tolerates missing optional fields.
package filmaffinity
