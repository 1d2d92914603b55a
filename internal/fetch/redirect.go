package fetch

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"openai2gemini-go/internal/constants"
)

// ResolveRedirect follows the redirect chain of a citation link and returns
// the final URL. It degrades to returning its input on any failure: exceeded
// hops, a redirect cycle, connection errors or the overall timeout. It never
// returns an error.
//
// HEAD is used per hop; servers that reject HEAD with 403 or 405 get one GET
// retry for that hop.
func (f *Fetcher) ResolveRedirect(ctx context.Context, rawURL string) string {
	ctx, cancel := context.WithTimeout(ctx, constants.RedirectTimeout)
	defer cancel()

	cli := &http.Client{
		Transport: f.cli.Transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	visited := map[string]bool{rawURL: true}
	current := rawURL

	for hop := 0; hop < constants.RedirectMaxHops; hop++ {
		resp, err := headOrGet(ctx, cli, current)
		if err != nil {
			log.WithError(err).WithField("url", rawURL).Debug("redirect resolution failed")
			return rawURL
		}
		resp.Body.Close()

		if resp.StatusCode < 300 || resp.StatusCode > 399 {
			return current
		}

		loc := resp.Header.Get("Location")
		if loc == "" {
			return current
		}
		next, err := resp.Request.URL.Parse(loc)
		if err != nil {
			return current
		}
		nextURL := next.String()

		if visited[nextURL] {
			log.WithField("url", rawURL).Debug("redirect cycle detected")
			return rawURL
		}
		visited[nextURL] = true
		current = nextURL
	}

	log.WithField("url", rawURL).Debug("redirect hop limit exceeded")
	return rawURL
}

func headOrGet(ctx context.Context, cli *http.Client, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := cli.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusMethodNotAllowed {
		resp.Body.Close()
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		return cli.Do(req)
	}
	return resp, nil
}
