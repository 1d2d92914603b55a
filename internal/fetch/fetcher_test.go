package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openai2gemini-go/internal/config"
	apperrors "openai2gemini-go/internal/errors"
)

func newTestFetcher() *Fetcher {
	return New(&config.Config{})
}

func TestFetchImage(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	res, err := newTestFetcher().Fetch(context.Background(), srv.URL+"/pic", FamilyImage)
	require.NoError(t, err)
	assert.Equal(t, png, res.Data)
	assert.Equal(t, "image/png", res.MimeType)
}

func TestFetchImageMismatchedHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	res, err := newTestFetcher().Fetch(context.Background(), srv.URL+"/pic", FamilyImage)
	require.NoError(t, err)
	// non-image header is rejected, family default applies
	assert.Equal(t, "image/jpeg", res.MimeType)
}

func TestFetchFileNoContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte("%PDF-1.5 rest"))
	}))
	defer srv.Close()

	res, err := newTestFetcher().Fetch(context.Background(), srv.URL+"/doc", FamilyFile)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.MimeType)
}

func TestFetchErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Fetch(context.Background(), srv.URL+"/missing", FamilyFile)
	require.Error(t, err)
	var fe *apperrors.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Contains(t, fe.URL, "/missing")
}

func TestRewriteURL(t *testing.T) {
	f := New(&config.Config{
		RewriteHostname: "bucket.example.com",
		RewriteProtocol: "http",
		RewriteHost:     "localhost",
		RewritePort:     "4563",
	})

	tests := []struct {
		in   string
		want string
	}{
		{"https://bucket.example.com/files/a.png", "http://localhost:4563/files/a.png"},
		{"https://other.example.com/files/a.png", "https://other.example.com/files/a.png"},
		{"https://sub.bucket.example.com/a.png", "https://sub.bucket.example.com/a.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.rewriteURL(tt.in), "input %s", tt.in)
	}
}

func TestResolveRedirectChain(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/b", http.StatusFound)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	got := newTestFetcher().ResolveRedirect(context.Background(), srv.URL+"/a")
	assert.Equal(t, srv.URL+"/final", got)
}

func TestResolveRedirectHeadRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		http.Redirect(w, r, "/done", http.StatusFound)
	})
	mux.HandleFunc("/done", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	got := newTestFetcher().ResolveRedirect(context.Background(), srv.URL+"/start")
	assert.Equal(t, srv.URL+"/done", got)
}

func TestResolveRedirectCycle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/y", http.StatusFound)
	})
	mux.HandleFunc("/y", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/x", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	start := srv.URL + "/x"
	assert.Equal(t, start, newTestFetcher().ResolveRedirect(context.Background(), start))
}

func TestResolveRedirectConnectionError(t *testing.T) {
	// unroutable port on loopback; must degrade, not error
	u := url.URL{Scheme: "http", Host: "127.0.0.1:1", Path: "/gone"}
	got := newTestFetcher().ResolveRedirect(context.Background(), u.String())
	assert.Equal(t, u.String(), got)
}
