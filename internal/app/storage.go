package app

import (
	"context"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/cricket-hub/internal/config"
	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
	"github.com/riskibarqy/cricket-hub/internal/domain/wizard"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

const dbPingTimeout = 5 * time.Second

type storage struct {
	drafts        wizard.Repository
	notifications notification.Repository
	close         func() error
}

func openStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (storage, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		logger.Info("using in-memory storage")
		return storage{
			drafts:        memory.NewDraftRepository(),
			notifications: memory.NewNotificationRepository(),
			close:         func() error { return nil },
		}, nil
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return storage{}, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return storage{}, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("using postgres storage", "db_name", dbNameFromURL(dsn))
	return storage{
		drafts:        postgres.NewDraftRepository(db),
		notifications: postgres.NewNotificationRepository(db),
		close:         db.Close,
	}, nil
}
