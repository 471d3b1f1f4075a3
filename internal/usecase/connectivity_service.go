package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

const (
	apiProbeTimeout           = 10 * time.Second
	authenticatedProbeTimeout = 15 * time.Second

	apiProbePath           = "/api/health"
	authenticatedProbePath = "/api/matches?per_page=1"
)

type Prober interface {
	Probe(ctx context.Context, path, token string, timeout time.Duration) (int, error)
}

type ProbeResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	Status    int    `json:"status,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type ConnectivityService struct {
	prober Prober
	logger *logging.Logger
	now    func() time.Time
}

func NewConnectivityService(prober Prober, logger *logging.Logger) *ConnectivityService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ConnectivityService{prober: prober, logger: logger, now: time.Now}
}

// ProbeAPI checks that the API answers at all. No credential is sent.
func (s *ConnectivityService) ProbeAPI(ctx context.Context) ProbeResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.ConnectivityService.ProbeAPI")
	defer span.End()

	return s.run(ctx, "api", apiProbePath, "", apiProbeTimeout)
}

// ProbeAuthenticated checks that token is accepted by the API.
func (s *ConnectivityService) ProbeAuthenticated(ctx context.Context, token string) ProbeResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.ConnectivityService.ProbeAuthenticated")
	defer span.End()

	if token == "" {
		return ProbeResult{Name: "authenticated", Error: "no credential available"}
	}
	return s.run(ctx, "authenticated", authenticatedProbePath, token, authenticatedProbeTimeout)
}

func (s *ConnectivityService) run(ctx context.Context, name, path, token string, timeout time.Duration) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := s.now()
	status, err := s.prober.Probe(ctx, path, token, timeout)
	res := ProbeResult{
		Name:      name,
		OK:        err == nil,
		Status:    status,
		LatencyMs: s.now().Sub(started).Milliseconds(),
	}
	if err != nil {
		res.Error = errorMessage(err)
		s.logger.WarnContext(ctx, "connectivity probe failed", "probe", name, "status", status, "error", err)
	}
	return res
}
