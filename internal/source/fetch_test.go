package source

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lyrics.txt":
			_, _ = w.Write([]byte("[00:01.00]"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	body, err := Fetch(context.Background(), srv.Client(), srv.URL+"/lyrics.txt")
	require.NoError(t, err)
	assert.Equal(t, "[00:01.00]", body)

	_, err = Fetch(context.Background(), srv.Client(), srv.URL+"/missing")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.Contains(t, fe.Error(), "status 404")
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fetch(ctx, nil, srv.URL)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyrics.txt")
	require.NoError(t, os.WriteFile(path, []byte("[00:02.00]"), 0o644))

	body, err := Fetch(context.Background(), nil, path)
	require.NoError(t, err)
	assert.Equal(t, "[00:02.00]", body)

	_, err = Fetch(context.Background(), nil, filepath.Join(t.TempDir(), "nope.txt"))
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a"))
	assert.False(t, IsRemote("lyrics/a.txt"))
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	doc := "[00:01.00][voice:v]<00:01.00>" + strings.Repeat("a", MaxSize) + "<00:02.00>[59:00.00]"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(doc))
	}))
	defer srv.Close()

	body, err := Fetch(context.Background(), srv.Client(), srv.URL)
	assert.Empty(t, body)
	var fe *FetchError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFetchAcceptsBodyAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("a"), MaxSize))
	}))
	defer srv.Close()

	body, err := Fetch(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, MaxSize)
}

func TestFetchRejectsOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("a"), MaxSize+1), 0o644))

	_, err := Fetch(context.Background(), nil, path)
	assert.ErrorIs(t, err, ErrTooLarge)
}
