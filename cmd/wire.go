package cmd

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jobmate/recruiter-service/internal/access"
	"jobmate/recruiter-service/internal/billing"
	"jobmate/recruiter-service/internal/config"
	"jobmate/recruiter-service/internal/dashboard"
	"jobmate/recruiter-service/internal/db"
	"jobmate/recruiter-service/internal/dismissal"
	"jobmate/recruiter-service/internal/events"
	"jobmate/recruiter-service/internal/kanban"
	"jobmate/recruiter-service/internal/ledger"
	"jobmate/recruiter-service/internal/logger"
	"jobmate/recruiter-service/internal/store"
)

// services holds the connections and every component built on them.
type services struct {
	pool *pgxpool.Pool
	rdb  *redis.Client

	publisher  *events.Publisher
	dashboard  *dashboard.Aggregator
	controller *kanban.Controller
	ledger     *ledger.Ledger
	billing    *billing.Service
	dismissals *dismissal.Store
}

// newServices connects to PostgreSQL and Redis and builds the components.
// auth decides who may call them; the digest command passes access.Static.
func newServices(ctx context.Context, cfg *config.Config, auth access.Authorizer, log *zap.Logger) (*services, error) {
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, db.DefaultPoolOptions, log)
	if err != nil {
		return nil, err
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	st, err := store.New(pool, cfg.NodeID)
	if err != nil {
		pool.Close()
		_ = rdb.Close()
		return nil, err
	}

	pub := events.NewPublisher(rdb)
	return &services{
		pool:      pool,
		rdb:       rdb,
		publisher: pub,
		dashboard: dashboard.New(st, auth,
			dashboard.WithLogger(logger.Component(log, "dashboard")),
		),
		controller: kanban.NewController(st, auth, cfg.Policy(), pub, logger.Component(log, "kanban")),
		ledger:     ledger.New(st, auth, pub, logger.Component(log, "ledger")),
		billing:    billing.NewService(st, auth),
		dismissals: dismissal.NewStore(rdb, cfg.Location()),
	}, nil
}

func (s *services) Close() {
	_ = s.rdb.Close()
	s.pool.Close()
}
