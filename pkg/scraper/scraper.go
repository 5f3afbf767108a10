// Package scraper drives pagination over a user's FilmAffinity rating
// history and accumulates the parsed records for rendering.
package scraper

import (
	"fmt"

	"faexport/pkg/config"
	"faexport/pkg/filmaffinity"
	"faexport/pkg/logger"
)

// state of the pagination loop. The site has no explicit "last page"
// indicator; an empty page is the termination signal.
type state int

const (
	stateFetching state = iota
	stateDone
)

// Session is the ephemeral result of one export run: the target user id and
// the accumulated records in catalog order (page 1 first, in-page document
// order preserved).
type Session struct {
	UserID  string
	Records []filmaffinity.RatingRecord
}

// Client is the subset of the FilmAffinity client the scraper needs
type Client interface {
	FetchRatingsPage(userID string, page int) ([]byte, error)
}

// Scraper walks a user's paginated rating history
type Scraper struct {
	client   Client
	maxPages int
	logger   logger.Logger
}

// New creates a new Scraper instance
func New(cfg *config.Config, client Client) *Scraper {
	return &Scraper{
		client:   client,
		maxPages: cfg.Scraper.MaxPages,
		logger:   logger.GetLogger(),
	}
}

// FetchAllRatings fetches and parses rating pages starting at page 1 until
// the site returns a page with no records, then returns the accumulated
// session.
//
// Failure policy: an error on page 1 is fatal (the user id is most likely
// wrong). An error on a later page ends pagination gracefully and keeps the
// records collected so far; the site's behavior past the last real page is
// not reliable enough to treat it as fatal.
func (s *Scraper) FetchAllRatings(userID string) (*Session, error) {
	session := &Session{UserID: userID}

	page := 1
	st := stateFetching
	for st == stateFetching {
		if page > s.maxPages {
			// Runaway guard: the empty-page signal never arrived.
			s.logger.WarnWithFields("page cap reached, stopping pagination", map[string]interface{}{
				"user_id":   userID,
				"max_pages": s.maxPages,
			})
			st = stateDone
			continue
		}

		body, err := s.client.FetchRatingsPage(userID, page)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("fetching first ratings page: %w", err)
			}
			s.logger.WarnWithFields("fetch failed past first page, treating as end of history", map[string]interface{}{
				"user_id": userID,
				"page":    page,
				"error":   err.Error(),
			})
			st = stateDone
			continue
		}

		records, err := filmaffinity.ParseRatingsPage(body)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("parsing first ratings page: %w", err)
			}
			s.logger.WarnWithFields("parse failed past first page, treating as end of history", map[string]interface{}{
				"user_id": userID,
				"page":    page,
				"error":   err.Error(),
			})
			st = stateDone
			continue
		}

		if len(records) == 0 {
			st = stateDone
			continue
		}

		session.Records = append(session.Records, records...)
		s.logger.InfoWithFields("scraped ratings page", map[string]interface{}{
			"user_id": userID,
			"page":    page,
			"records": len(records),
			"total":   len(session.Records),
		})
		page++
	}

	s.logger.InfoWithFields("rating history complete", map[string]interface{}{
		"user_id": userID,
		"records": len(session.Records),
	})

	return session, nil
}
