package postgres

import (
	"context"
	"database/sql"

	"github.com/phrazzld/shortlink-api/internal/store"
)

// DBPinger adapts *sql.DB to store.Pinger for readiness checks.
type DBPinger struct {
	DB *sql.DB
}

var _ store.Pinger = DBPinger{}

// Ping implements store.Pinger.
func (p DBPinger) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}
