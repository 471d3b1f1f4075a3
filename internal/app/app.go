package app

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/riskibarqy/cricket-hub/external/cricketapi"
	"github.com/riskibarqy/cricket-hub/external/identity"
	"github.com/riskibarqy/cricket-hub/internal/config"
	"github.com/riskibarqy/cricket-hub/internal/interfaces/httpapi"
	"github.com/riskibarqy/cricket-hub/internal/platform/id"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

const bootPingTimeout = 5 * time.Second

// NewHTTPServer wires storage, the cricket API client and the services into
// an http.Server. The returned cleanup releases storage.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	api := cricketapi.NewClient(cricketapi.Config{
		BaseURL:        cfg.CricketAPI.BaseURL,
		Timeout:        cfg.CricketAPI.Timeout,
		MaxRetries:     cfg.CricketAPI.MaxRetries,
		Tokens:         identity.ContextTokenSource{},
		Logger:         logger,
		CircuitBreaker: cfg.CricketAPI.CircuitBreaker,
	})
	pingAPI(ctx, api, logger)

	verifier, err := newVerifier(ctx, cfg, logger)
	if err != nil {
		_ = store.close()
		return nil, nil, err
	}
	resolver := identity.NewResolver(verifier, api, cfg.IdentityCacheTTL, logger)

	ids := id.NewUUIDGenerator()
	notifications := usecase.NewNotificationService(store.notifications, ids, logger)
	profiles := usecase.NewProfileService(api, logger)
	lists := usecase.NewMatchListService(api, profiles, notifications, usecase.MatchListServiceConfig{
		CacheEnabled:  cfg.CacheEnabled,
		CacheTTL:      cfg.CacheTTL,
		RosterWorkers: cfg.RosterWorkers,
	}, logger)
	selector := usecase.NewTeamSelectorService(
		api,
		profiles,
		notifications,
		lists,
		usecase.ReconcilePolicy(cfg.ReconcilePolicy),
		cfg.SelectorSessionTTL,
		logger,
	)
	forms := usecase.NewMatchFormService(api, store.drafts, ids, notifications, lists, logger)
	connectivity := usecase.NewConnectivityService(cricketapi.NewProber(cfg.CricketAPI.BaseURL), logger)

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		Matches:       lists,
		Selector:      selector,
		Forms:         forms,
		Notifications: notifications,
		Profiles:      profiles,
		Connectivity:  connectivity,
		StreamOrigins: streamOrigins(cfg.CORSAllowedOrigins),
	}, logger)
	router := httpapi.NewRouter(handler, resolver, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	logger.Info("app wired",
		"storage_driver", cfg.StorageDriver,
		"cricket_api", api.BaseURL(),
		"reconcile_policy", cfg.ReconcilePolicy,
		"cache_enabled", cfg.CacheEnabled,
		"firebase_verification", verifier.Enabled(),
	)

	return server, store.close, nil
}

// newVerifier checks Firebase ID tokens locally when a project is configured.
// Without one, every bearer token is confirmed against the cricket API.
func newVerifier(ctx context.Context, cfg config.Config, logger *logging.Logger) (*identity.Verifier, error) {
	vcfg := identity.VerifierConfig{ProjectID: cfg.Firebase.ProjectID, CacheTTL: cfg.IdentityCacheTTL}
	if vcfg.ProjectID == "" {
		logger.Warn("FIREBASE_PROJECT_ID not set, bearer tokens are confirmed upstream only")
		return identity.NewVerifier(vcfg, logger), nil
	}
	keys, err := identity.NewRemoteKeys(ctx, cfg.Firebase.JWKSURL)
	if err != nil {
		return nil, err
	}
	vcfg.Keys = keys
	return identity.NewVerifier(vcfg, logger), nil
}

// pingAPI only logs: the service still starts when the API is down so the
// connectivity endpoint can report it.
func pingAPI(ctx context.Context, api *cricketapi.Client, logger *logging.Logger) {
	ctx, cancel := context.WithTimeout(ctx, bootPingTimeout)
	defer cancel()

	if err := api.Ping(ctx); err != nil {
		logger.Warn("cricket api unreachable at boot", "base_url", api.BaseURL(), "error", err)
		return
	}
	logger.Info("cricket api reachable", "base_url", api.BaseURL())
}

func streamOrigins(corsOrigins []string) []string {
	if slices.Contains(corsOrigins, "*") {
		return nil
	}
	return corsOrigins
}
