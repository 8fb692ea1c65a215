// Package source loads the lyric markup document.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// MaxSize caps the document size.
const MaxSize = 4 << 20

// ErrTooLarge is wrapped by a FetchError when a document exceeds MaxSize.
var ErrTooLarge = errors.New("document exceeds size limit")

// FetchError reports a failed load. Status is set for non-2xx responses.
type FetchError struct {
	Location string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Location, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Location, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Fetch returns the document at location. http(s) URLs are requested with a
// single GET; anything else is a file path. client may be nil.
func Fetch(ctx context.Context, client *http.Client, location string) (string, error) {
	if !IsRemote(location) {
		f, err := os.Open(location)
		if err != nil {
			return "", &FetchError{Location: location, Err: err}
		}
		defer f.Close()
		return readLimited(location, f)
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", &FetchError{Location: location, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{Location: location, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{Location: location, Status: resp.StatusCode}
	}
	return readLimited(location, resp.Body)
}

// readLimited reads all of r, failing rather than truncating past MaxSize.
func readLimited(location string, r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return "", &FetchError{Location: location, Err: err}
	}
	if len(b) > MaxSize {
		return "", &FetchError{Location: location, Err: ErrTooLarge}
	}
	return string(b), nil
}
