package filmaffinity

// RatingRecord is one parsed entry of a user's rating history. Immutable
// once parsed; records are never deduplicated.
type RatingRecord struct {
	// Title of the rated film. Mandatory; records without a title are
	// dropped by the parser.
	Title string

	// Year of release. Zero when the listing carries no year.
	Year int

	// Rating is the user's own vote on the site's 1-10 scale. Mandatory;
	// records without a parseable rating are dropped.
	Rating int

	// AvgRating is the site-wide average as published, kept verbatim
	// because the site formats it with a locale decimal comma ("6,4").
	AvgRating string

	// VoteDate is the date the vote was cast, as shown on the listing.
	VoteDate string

	// PosterURL points at the poster thumbnail. May be empty.
	PosterURL string

	// Director and Cast lines as shown on the listing. May be empty.
	Director string
	Cast     string
}
