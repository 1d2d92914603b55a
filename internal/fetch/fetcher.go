// Package fetch retrieves remote media referenced by conversation content
// and resolves its MIME type through the sniffer.
package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"openai2gemini-go/internal/config"
	"openai2gemini-go/internal/constants"
	apperrors "openai2gemini-go/internal/errors"
	"openai2gemini-go/internal/mimesniff"
)

// Family selects the MIME resolution path for a fetch.
type Family int

const (
	FamilyFile Family = iota
	FamilyImage
	FamilyAudio
)

// Result is a fetched resource: its raw bytes and resolved MIME type.
type Result struct {
	Data     []byte
	MimeType string
}

// Fetcher downloads remote content, optionally rewriting hostnames per the
// configured local-redirection rule.
type Fetcher struct {
	cfg *config.Config
	cli *http.Client
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

// New constructs a Fetcher with transport settings from configuration.
func New(cfg *config.Config) *Fetcher {
	dialTO := durationOrDefault(cfg.DialTimeoutSec, constants.DefaultDialTimeout)
	tlsTO := durationOrDefault(cfg.TLSHandshakeTimeoutSec, constants.DefaultTLSHandshakeTimeout)
	hdrTO := durationOrDefault(cfg.ResponseHeaderTimeoutSec, constants.DefaultResponseHeaderTimeout)

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTO,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   tlsTO,
		ResponseHeaderTimeout: hdrTO,
		ExpectContinueTimeout: constants.DefaultExpectContinueTimeout,
		MaxIdleConns:          constants.BaseMaxIdleConns,
		MaxIdleConnsPerHost:   constants.BaseMaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
	}
	return &Fetcher{cfg: cfg, cli: &http.Client{Transport: tr}}
}

// Fetch downloads the resource at rawURL and resolves its MIME type for the
// given family. Non-2xx responses produce a FetchError carrying the status
// code and the URL. The whole body is read into memory; callers that need
// backpressure must wrap this contract.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, family Family) (*Result, error) {
	target := f.rewriteURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &apperrors.FetchError{URL: rawURL, Err: err}
	}

	resp, err := f.cli.Do(req)
	if err != nil {
		return nil, &apperrors.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.FetchError{URL: rawURL, Err: err}
	}

	header := resp.Header.Get("Content-Type")
	var mimeType string
	switch family {
	case FamilyImage:
		mimeType = mimesniff.IdentifyImage(header, rawURL)
	case FamilyAudio:
		mimeType = mimesniff.IdentifyAudio(header, rawURL)
	default:
		mimeType = mimesniff.Identify(header, rawURL, data)
	}

	return &Result{Data: data, MimeType: mimeType}, nil
}

// rewriteURL applies the local-redirection rule: when the URL's hostname
// exactly equals the configured source hostname, scheme, host and port are
// replaced so a locally running bucket can stand in for its public name.
func (f *Fetcher) rewriteURL(rawURL string) string {
	if !f.cfg.RewriteConfigured() {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() != f.cfg.RewriteHostname {
		return rawURL
	}

	u.Scheme = f.cfg.RewriteProtocol
	if f.cfg.RewritePort != "" {
		u.Host = net.JoinHostPort(f.cfg.RewriteHost, f.cfg.RewritePort)
	} else {
		u.Host = f.cfg.RewriteHost
	}
	rewritten := u.String()
	log.WithFields(log.Fields{"from": rawURL, "to": rewritten}).Debug("fetch url rewritten")
	return rewritten
}
