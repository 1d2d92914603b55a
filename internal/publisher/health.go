package publisher

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"openai2gemini-go/internal/constants"
)

// ProbeHealth issues a best-effort GET against the bucket's base URL and logs
// the outcome. Availability is advisory only: a failed probe never gates
// publishing, which degrades per asset instead.
func (p *Publisher) ProbeHealth(ctx context.Context) {
	base := p.baseURL()
	if base == "" {
		log.Info("no bucket configured; generated assets will use data urls")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, constants.HealthProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		log.WithError(err).Warn("bucket health probe skipped")
		return
	}
	resp, err := p.cli.Do(req)
	if err != nil {
		log.WithError(err).WithField("bucket", base).Warn("bucket unreachable; uploads will fall back to data urls")
		return
	}
	resp.Body.Close()
	log.WithFields(log.Fields{"bucket": base, "status": resp.StatusCode}).Info("bucket health probe")
}

func (p *Publisher) baseURL() string {
	if p.cfg.UploadURL != "" {
		return strings.TrimSuffix(p.cfg.UploadURL, "/upload")
	}
	if p.cfg.BucketDomain == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s:%s", p.cfg.BucketProtocol, p.cfg.BucketDomain, p.cfg.BucketPort)
}
