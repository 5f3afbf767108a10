package filmaffinity

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// movieItemHTML builds one rating row the way the listing renders it: a
// per-day group wrapper with a header, and the user's vote box sitting next
// to the item inside the row.
func movieItemHTML(title, year, avg, rating, date, posterURL string) string {
	var b strings.Builder
	b.WriteString(`<div class="user-ratings-wrapper">`)
	if date != "" {
		fmt.Fprintf(&b, `<div class="user-ratings-header">Votada el día: %s</div>`, date)
	}
	b.WriteString(`<div class="row">`)
	b.WriteString(`<div class="user-ratings-movie-item">`)
	if posterURL != "" {
		fmt.Fprintf(&b, `<div class="mc-poster"><img class="lazyload" data-srcset="%s 1x" src="/imgs/blank.gif"></div>`, posterURL)
	}
	if title != "" {
		fmt.Fprintf(&b, `<div class="mc-title"><a class="d-md-inline-block" href="/es/film1.html">%s</a></div>`, title)
	}
	if year != "" {
		fmt.Fprintf(&b, `<span class="mc-year">%s</span>`, year)
	}
	if avg != "" {
		fmt.Fprintf(&b, `<div class="fa-avg-rat-box"><div class="avg">%s</div></div>`, avg)
	}
	b.WriteString(`<div class="mc-director">Sofia Coppola</div>`)
	b.WriteString(`<div class="mc-cast">Bill Murray, Scarlett Johansson</div>`)
	b.WriteString(`</div>`)
	if rating != "" {
		fmt.Fprintf(&b, `<div class="fa-user-rat-box">%s</div>`, rating)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func pageHTML(items ...string) []byte {
	return []byte(`<html><body><div class="user-ratings-list">` + strings.Join(items, "") + `</div></body></html>`)
}

func TestParseRatingsPage(t *testing.T) {
	html := pageHTML(
		movieItemHTML("Lost in Translation", "2003", "7,6", "9", "12 de enero de 2024", "https://pics.example.com/lost.jpg"),
		movieItemHTML("Her", "2013", "7,4", "8", "12 de enero de 2024", "https://pics.example.com/her.jpg"),
	)

	records, err := ParseRatingsPage(html)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Lost in Translation", first.Title)
	assert.Equal(t, 2003, first.Year)
	assert.Equal(t, 9, first.Rating)
	assert.Equal(t, "7,6", first.AvgRating)
	assert.Equal(t, "12 de enero de 2024", first.VoteDate)
	assert.Equal(t, "https://pics.example.com/lost.jpg", first.PosterURL)
	assert.Equal(t, "Sofia Coppola", first.Director)
	assert.Equal(t, "Bill Murray, Scarlett Johansson", first.Cast)

	// Document order is preserved
	assert.Equal(t, "Her", records[1].Title)
}

func TestParseRatingsPageEmptyListing(t *testing.T) {
	records, err := ParseRatingsPage(pageHTML())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseRatingsPageEmptyInput(t *testing.T) {
	_, err := ParseRatingsPage(nil)
	require.Error(t, err)

	var faErr *Error
	require.ErrorAs(t, err, &faErr)
	assert.Equal(t, ErrorTypeParsing, faErr.Type)
}

func TestParseRatingsPageSkipsMandatoryFieldFailures(t *testing.T) {
	html := pageHTML(
		movieItemHTML("", "2001", "6,0", "7", "1 de mayo de 2023", ""),                        // no title
		movieItemHTML("No Rating", "2002", "6,1", "", "1 de mayo de 2023", ""),                // no rating
		movieItemHTML("Bad Rating", "2003", "6,2", "ten", "1 de mayo de 2023", ""),            // non-numeric rating
		movieItemHTML("Out of Scale", "2004", "6,3", "11", "1 de mayo de 2023", ""),           // rating out of range
		movieItemHTML("Survivor", "2005", "6,4", "6", "1 de mayo de 2023", "/posters/ok.jpg"), // valid
	)

	records, err := ParseRatingsPage(html)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Survivor", records[0].Title)
	assert.Equal(t, 6, records[0].Rating)
}

func TestParseRatingsPageOptionalFields(t *testing.T) {
	// No poster, no year element, no date header: the record must survive
	// with zero values for the optional fields.
	html := pageHTML(movieItemHTML("Orphan Film", "", "5,5", "5", "", ""))

	records, err := ParseRatingsPage(html)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "Orphan Film", record.Title)
	assert.Zero(t, record.Year)
	assert.Empty(t, record.PosterURL)
	assert.Empty(t, record.VoteDate)
	assert.Equal(t, 5, record.Rating)
}

func TestParseRatingsPageYearEmbeddedInTitle(t *testing.T) {
	html := pageHTML(movieItemHTML("The Matrix (1999)", "", "7,9", "10", "3 de marzo de 2022", ""))

	records, err := ParseRatingsPage(html)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "The Matrix", records[0].Title)
	assert.Equal(t, 1999, records[0].Year)
}

func TestParseRatingsPagePosterFallbacks(t *testing.T) {
	tests := []struct {
		name string
		img  string
		want string
	}{
		{
			name: "data-srcset first candidate",
			img:  `<img class="lazyload" data-srcset="https://pics.example.com/a.jpg 1x, https://pics.example.com/a@2x.jpg 2x">`,
			want: "https://pics.example.com/a.jpg",
		},
		{
			name: "data-src fallback",
			img:  `<img class="lazyload" data-src="https://pics.example.com/b.jpg">`,
			want: "https://pics.example.com/b.jpg",
		},
		{
			name: "plain src fallback",
			img:  `<img class="lazyload" src="https://pics.example.com/c.jpg">`,
			want: "https://pics.example.com/c.jpg",
		},
		{
			name: "no image at all",
			img:  ``,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := pageHTML(`<div class="user-ratings-wrapper"><div class="row">` +
				`<div class="user-ratings-movie-item">` +
				`<div class="mc-poster">` + tt.img + `</div>` +
				`<div class="mc-title"><a>Some Film</a></div>` +
				`</div>` +
				`<div class="fa-user-rat-box">7</div>` +
				`</div></div>`)

			records, err := ParseRatingsPage(html)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].PosterURL)
		})
	}
}

func TestParseRatingsPageNormalizesWhitespace(t *testing.T) {
	html := pageHTML(`<div class="user-ratings-wrapper"><div class="row">` +
		`<div class="user-ratings-movie-item">` +
		`<div class="mc-title"><a>  Lost   in
		Translation  </a></div>` +
		`</div>` +
		`<div class="fa-user-rat-box"> 9 </div>` +
		`</div></div>`)

	records, err := ParseRatingsPage(html)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Lost in Translation", records[0].Title)
}
