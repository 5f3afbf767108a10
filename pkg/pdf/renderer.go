// Package pdf renders an export session into a paginated PDF document with
// a fixed number of rating records per page.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strconv"

	// Poster decoding for the formats the site serves
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-pdf/fpdf"

	"faexport/pkg/config"
	"faexport/pkg/filmaffinity"
	"faexport/pkg/logger"
	"faexport/pkg/scraper"
)

// Page geometry in millimeters (A4 portrait)
const (
	marginLeft   = 15.0
	marginTop    = 15.0
	marginRight  = 15.0
	marginBottom = 15.0

	posterWidth = 26.0
	posterGap   = 5.0
)

// PosterFetcher downloads poster images during rendering. A fetch failure
// downgrades the record to a placeholder region; it never aborts the
// document.
type PosterFetcher interface {
	DownloadPoster(url string) ([]byte, error)
}

// Renderer lays rating records onto fixed-capacity PDF pages
type Renderer struct {
	fetcher        PosterFetcher
	recordsPerPage int
	logger         logger.Logger
}

// NewRenderer creates a new Renderer instance
func NewRenderer(cfg *config.Config, fetcher PosterFetcher) *Renderer {
	return &Renderer{
		fetcher:        fetcher,
		recordsPerPage: cfg.Output.RecordsPerPage,
		logger:         logger.GetLogger(),
	}
}

// Render writes the session's records as a PDF document. Page count is
// ceil(records / capacity); record order follows the session's catalog
// order.
func (r *Renderer) Render(session *scraper.Session, w io.Writer) error {
	doc := r.buildDocument(session)
	if err := doc.Error(); err != nil {
		return fmt.Errorf("building pdf document: %w", err)
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("writing pdf document: %w", err)
	}
	return nil
}

// buildDocument lays out the full document in memory
func (r *Renderer) buildDocument(session *scraper.Session) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(marginLeft, marginTop, marginRight)
	doc.SetAutoPageBreak(false, marginBottom)
	doc.SetTitle(fmt.Sprintf("FilmAffinity ratings - %s", session.UserID), true)

	// Core fonts are cp1252; titles and names carry accents
	tr := doc.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := doc.GetPageSize()
	rowHeight := (pageHeight - marginTop - marginBottom) / float64(r.recordsPerPage)

	for i, record := range session.Records {
		slot := i % r.recordsPerPage
		if slot == 0 {
			doc.AddPage()
		}
		y := marginTop + float64(slot)*rowHeight
		r.renderRecord(doc, tr, record, i, y, rowHeight, pageWidth)
	}

	return doc
}

// renderRecord draws one record block: poster (or placeholder) on the left,
// title, rating, and detail lines on the right, separator rule underneath.
func (r *Renderer) renderRecord(doc *fpdf.Fpdf, tr func(string) string, record filmaffinity.RatingRecord, idx int, y, rowHeight, pageWidth float64) {
	posterHeight := rowHeight - 8

	if !r.drawPoster(doc, record, idx, marginLeft, y+2, posterWidth, posterHeight) {
		drawPlaceholder(doc, tr, marginLeft, y+2, posterWidth, posterHeight)
	}

	textX := marginLeft + posterWidth + posterGap
	textWidth := pageWidth - marginRight - textX

	// Title
	doc.SetFont("Helvetica", "B", 13)
	doc.SetTextColor(46, 116, 181)
	doc.SetXY(textX, y+2)
	doc.CellFormat(textWidth, 6, fitText(doc, tr(record.Title), textWidth), "", 1, "L", false, 0, "")

	// Own rating, with the site average when the listing carried one
	ratingText := strconv.Itoa(record.Rating)
	if record.AvgRating != "" {
		ratingText = fmt.Sprintf("%d (%s)", record.Rating, record.AvgRating)
	}
	doc.SetFont("Helvetica", "B", 11)
	doc.SetTextColor(192, 0, 0)
	doc.SetX(textX)
	doc.CellFormat(textWidth, 6, tr(ratingText), "", 1, "L", false, 0, "")

	// Detail lines, only for the fields the listing actually carried
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(51, 51, 51)
	var lines []string
	if record.Year > 0 {
		lines = append(lines, fmt.Sprintf("Year: %d", record.Year))
	}
	if record.Director != "" {
		lines = append(lines, "Director: "+record.Director)
	}
	if record.Cast != "" {
		lines = append(lines, "Cast: "+record.Cast)
	}
	if record.VoteDate != "" {
		lines = append(lines, "Voted: "+record.VoteDate)
	}
	for _, line := range lines {
		doc.SetX(textX)
		doc.CellFormat(textWidth, 5, fitText(doc, tr(line), textWidth), "", 1, "L", false, 0, "")
	}

	// Separator rule between record blocks
	doc.SetDrawColor(204, 204, 204)
	doc.SetLineWidth(0.2)
	doc.Line(marginLeft, y+rowHeight-1, pageWidth-marginRight, y+rowHeight-1)
}

// drawPoster fetches and embeds the record's poster. Returns false when the
// record has no poster, the download fails, or the bytes don't decode as a
// supported image; the caller substitutes a placeholder.
func (r *Renderer) drawPoster(doc *fpdf.Fpdf, record filmaffinity.RatingRecord, idx int, x, y, w, h float64) bool {
	if r.fetcher == nil || record.PosterURL == "" {
		return false
	}

	data, err := r.fetcher.DownloadPoster(record.PosterURL)
	if err != nil {
		r.logger.WarnWithFields("poster download failed, using placeholder", map[string]interface{}{
			"title": record.Title,
			"url":   record.PosterURL,
			"error": err.Error(),
		})
		return false
	}

	imgType := imageType(data)
	if imgType == "" {
		r.logger.WarnWithFields("unsupported poster image, using placeholder", map[string]interface{}{
			"title": record.Title,
			"url":   record.PosterURL,
		})
		return false
	}

	name := fmt.Sprintf("poster-%d", idx)
	opts := fpdf.ImageOptions{ImageType: imgType}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	doc.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return true
}

// drawPlaceholder draws a bordered region where the poster would be
func drawPlaceholder(doc *fpdf.Fpdf, tr func(string) string, x, y, w, h float64) {
	doc.SetDrawColor(204, 204, 204)
	doc.SetLineWidth(0.2)
	doc.Rect(x, y, w, h, "D")

	doc.SetFont("Helvetica", "I", 8)
	doc.SetTextColor(150, 150, 150)
	doc.SetXY(x, y+h/2-2)
	doc.CellFormat(w, 4, tr("no poster"), "", 0, "C", false, 0, "")
}

// imageType sniffs the poster bytes and maps them to the image type names
// the PDF library expects. Empty string means not embeddable.
func imageType(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	switch format {
	case "jpeg":
		return "JPG"
	case "png":
		return "PNG"
	case "gif":
		return "GIF"
	default:
		return ""
	}
}

// fitText truncates s (already codepage-translated) so it fits in maxWidth
// with the current font
func fitText(doc *fpdf.Fpdf, s string, maxWidth float64) string {
	if doc.GetStringWidth(s) <= maxWidth {
		return s
	}
	const ellipsis = "..."
	for len(s) > 0 && doc.GetStringWidth(s+ellipsis) > maxWidth {
		s = s[:len(s)-1]
	}
	return s + ellipsis
}
