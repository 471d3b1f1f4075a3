package cricketapi

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// Prober runs lightweight reachability checks against the API using a
// dedicated fasthttp client, independent of the breaker-guarded Client.
type Prober struct {
	client  *fasthttp.Client
	baseURL string
}

func NewProber(baseURL string) *Prober {
	return &Prober{
		client: &fasthttp.Client{
			Name:                "cricket-hub-probe",
			MaxConnsPerHost:     4,
			MaxIdleConnDuration: 30 * time.Second,
		},
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

// Probe issues a GET to path and returns the status code. The effective
// timeout is the smaller of timeout and the context deadline.
func (p *Prober) Probe(ctx context.Context, path, token string, timeout time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, transportError("probe", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if err := p.client.DoTimeout(req, resp, timeout); err != nil {
		if stderrors.Is(err, fasthttp.ErrTimeout) {
			err = context.DeadlineExceeded
		}
		return 0, transportError("probe", err)
	}

	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return status, statusError("probe", status, append([]byte(nil), resp.Body()...))
	}
	return status, nil
}
