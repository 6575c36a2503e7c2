// Package covers resolves and validates book cover images.
package covers

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/litcircle/litcircle/config"
	"github.com/litcircle/litcircle/log"
	"github.com/litcircle/litcircle/model"
)

const (
	openLibraryCoverURL = "https://covers.openlibrary.org/b/isbn/%s-L.jpg"
	googleBooksCoverURL = "https://books.google.com/books/content?id=%s&printsec=frontcover&img=1&zoom=1"
)

// FetchCoverURLs builds candidate cover URLs for a book from the sources we
// know how to address. The book's own URL, when present, is tried first.
func FetchCoverURLs(book *model.Book) []string {
	urls := []string{}
	if book.ImageURL != "" {
		urls = append(urls, book.ImageURL)
	}
	if book.ISBN != "" {
		urls = append(urls, fmt.Sprintf(openLibraryCoverURL, book.ISBN))
	}
	if book.ExternalID != "" && book.Source == model.SourceGoogleBooks {
		urls = append(urls, fmt.Sprintf(googleBooksCoverURL, book.ExternalID))
	}
	return urls
}

// Validator downloads cover URLs and checks that they decode as images.
type Validator struct {
	client     *http.Client
	retryCount int
	backoff    time.Duration
}

func NewValidator() *Validator {
	return &Validator{
		client: &http.Client{
			Timeout: time.Duration(config.Opts.CoverRequestTimeout) * time.Second,
		},
		retryCount: config.Opts.CoverRetryCount,
		backoff:    time.Second,
	}
}

// Validate fetches the URL and decodes the payload. Transient failures are
// retried with the delay doubling each attempt.
func (v *Validator) Validate(ctx context.Context, url string) error {
	var lastErr error
	delay := v.backoff

	for attempt := 0; attempt <= v.retryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= time.Duration(config.Opts.CoverRetryBackoff)
		}

		lastErr = v.validateOnce(ctx, url)
		if lastErr == nil {
			return nil
		}
		log.Debug("cover validation attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
	}
	return errors.Wrapf(lastErr, "cover validation failed after %d attempts", v.retryCount+1)
}

func (v *Validator) validateOnce(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	// Decoding the whole payload rather than sniffing the header catches
	// truncated downloads and HTML error pages alike. The webp decoder is
	// registered by its import.
	if _, _, err := image.Decode(resp.Body); err != nil {
		return errors.Wrap(err, "payload is not a decodable image")
	}
	return nil
}
