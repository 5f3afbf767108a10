package filmaffinity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faexport/pkg/logger"
)

func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, 5*time.Second, logger.NewNopLogger())
}

func TestFetchRatingsPage(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>page markup</body></html>"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	body, err := client.FetchRatingsPage("123456", 2)
	require.NoError(t, err)
	assert.Contains(t, string(body), "page markup")

	assert.Equal(t, RatingsEndpoint, gotPath)
	assert.Equal(t, []string{"123456"}, gotQuery["user_id"])
	assert.Equal(t, []string{"2"}, gotQuery["p"])
	assert.Contains(t, gotUserAgent, "Mozilla/5.0")
}

func TestFetchRatingsPageNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchRatingsPage("123456", 1)
	require.Error(t, err)

	var faErr *Error
	require.ErrorAs(t, err, &faErr)
	assert.Equal(t, ErrorTypeNotFound, faErr.Type)
	assert.Equal(t, http.StatusNotFound, faErr.Code)
}

func TestFetchRatingsPageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchRatingsPage("123456", 1)
	require.Error(t, err)

	var faErr *Error
	require.ErrorAs(t, err, &faErr)
	assert.Equal(t, ErrorTypeServerError, faErr.Type)
}

func TestFetchRatingsPageNetworkError(t *testing.T) {
	// Point at a server that is no longer listening
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := newTestClient(serverURL)
	_, err := client.FetchRatingsPage("123456", 1)
	require.Error(t, err)

	var faErr *Error
	require.ErrorAs(t, err, &faErr)
	assert.Equal(t, ErrorTypeNetwork, faErr.Type)
}

func TestDownloadPoster(t *testing.T) {
	poster := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10} // JPEG magic
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(poster)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	data, err := client.DownloadPoster(server.URL + "/poster.jpg")
	require.NoError(t, err)
	assert.Equal(t, poster, data)
}

func TestDownloadPosterFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.DownloadPoster(server.URL + "/poster.jpg")
	require.Error(t, err)
}

func TestSetHeader(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Test")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.SetHeader("X-Test", "value")

	_, err := client.FetchRatingsPage("123456", 1)
	require.NoError(t, err)
	assert.Equal(t, "value", gotHeader)
}
