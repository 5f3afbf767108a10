package filmaffinity

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)
	yearRe  = regexp.MustCompile(`\((\d{4})\)\s*$`)
	intRe   = regexp.MustCompile(`\d+`)
)

// ParseRatingsPage extracts rating records from one page of a user's rating
// history. Records are returned in document order. A page with no rating
// rows yields an empty slice, which is how the site signals the end of the
// history.
//
// Selection keys on the class attributes the site uses for rating rows, not
// on absolute tree paths, so minor markup changes don't break extraction.
// Records missing a title or a parseable rating are skipped individually.
func ParseRatingsPage(html []byte) ([]RatingRecord, error) {
	if len(html) == 0 {
		return nil, &Error{
			Type:    ErrorTypeParsing,
			Message: "empty page markup",
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeParsing,
			Message: "failed to parse page markup: " + err.Error(),
		}
	}

	var records []RatingRecord
	doc.Find("div.user-ratings-movie-item").Each(func(_ int, item *goquery.Selection) {
		record, ok := parseMovieItem(item)
		if !ok {
			return
		}
		records = append(records, record)
	})

	return records, nil
}

// parseMovieItem extracts one rating record from an item container. The
// second return value is false when a mandatory field (title, rating) is
// missing or malformed.
func parseMovieItem(item *goquery.Selection) (RatingRecord, bool) {
	title := normSpace(item.Find(".mc-title a").First().Text())
	if title == "" {
		return RatingRecord{}, false
	}

	// The user's own vote sits next to the item in its row wrapper, not
	// inside it. The avg box inside the item holds the site average.
	rating, ok := parseRating(item.Parent().Find(".fa-user-rat-box").First().Text())
	if !ok {
		return RatingRecord{}, false
	}

	year := firstInt(item.Find(".mc-year").First().Text())
	if year == 0 {
		// Some listings embed the year in the title ("Title (1999)").
		if m := yearRe.FindStringSubmatch(title); m != nil {
			year, _ = strconv.Atoi(m[1])
			title = normSpace(yearRe.ReplaceAllString(title, ""))
		}
	}

	return RatingRecord{
		Title:     title,
		Year:      year,
		Rating:    rating,
		AvgRating: normSpace(item.Find(".fa-avg-rat-box .avg").First().Text()),
		VoteDate:  parseVoteDate(item),
		PosterURL: parsePosterURL(item),
		Director:  normSpace(item.Find(".mc-director").First().Text()),
		Cast:      normSpace(item.Find(".mc-cast").First().Text()),
	}, true
}

// parseRating parses the user's own vote. The site publishes integer votes
// on a 1-10 scale.
func parseRating(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	rating, err := strconv.Atoi(text)
	if err != nil || rating < 1 || rating > 10 {
		return 0, false
	}
	return rating, true
}

// parseVoteDate finds the date header of the group the item belongs to.
// The site groups rating rows under per-day headers.
func parseVoteDate(item *goquery.Selection) string {
	header := item.Closest(".user-ratings-wrapper").Find(".user-ratings-header").First().Text()
	header = normSpace(header)

	// Headers carry a label ("Votada el día: 12 de enero de 2024").
	if i := strings.Index(header, ":"); i >= 0 {
		header = normSpace(header[i+1:])
	}
	return header
}

// parsePosterURL extracts the poster thumbnail URL. Posters are lazy-loaded,
// so the real URL usually lives in data-srcset rather than src.
func parsePosterURL(item *goquery.Selection) string {
	img := item.Find("img.lazyload").First()
	if img.Length() == 0 {
		img = item.Find(".mc-poster img").First()
	}
	if img.Length() == 0 {
		return ""
	}

	if srcset, ok := img.Attr("data-srcset"); ok {
		if fields := strings.Fields(srcset); len(fields) > 0 {
			return fields[0]
		}
	}
	if src, ok := img.Attr("data-src"); ok && strings.TrimSpace(src) != "" {
		return strings.TrimSpace(src)
	}
	if src, ok := img.Attr("src"); ok {
		return strings.TrimSpace(src)
	}
	return ""
}

// normSpace trims and collapses runs of whitespace into single spaces
func normSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// firstInt returns the first integer embedded in s, or 0 when there is none
func firstInt(s string) int {
	m := intRe.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}
