package filmaffinity

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// BaseURL is the default base URL for FilmAffinity
	BaseURL = "https://www.filmaffinity.com"

	// RatingsEndpoint is the endpoint pattern for a user's rating history
	RatingsEndpoint = "/es/userratings.php"
)

// RatingsURL constructs the URL for one page of a user's rating history.
// Pages are 1-based.
func RatingsURL(baseURL, userID string, page int) string {
	if baseURL == "" {
		baseURL = BaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("p", strconv.Itoa(page))
	params.Set("chv", "list")
	params.Set("orderby", "rating")

	return fmt.Sprintf("%s%s?%s", baseURL, RatingsEndpoint, params.Encode())
}

// SanitizeUserID removes surrounding noise from a user id as typed by the
// operator (whitespace, trailing slashes, a pasted "user_id=" prefix).
func SanitizeUserID(userID string) string {
	userID = strings.TrimSpace(userID)
	userID = strings.TrimPrefix(userID, "user_id=")
	userID = strings.TrimRight(userID, "/")
	return strings.TrimSpace(userID)
}

// IsValidUserID reports whether a user id looks like a FilmAffinity user id.
// The site uses numeric ids.
func IsValidUserID(userID string) bool {
	if userID == "" {
		return false
	}
	for _, char := range userID {
		if char < '0' || char > '9' {
			return false
		}
	}
	return true
}
