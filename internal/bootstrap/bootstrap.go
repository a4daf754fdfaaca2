package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/sales-dashboard/internal/cache"
	"github.com/GregMSThompson/sales-dashboard/internal/config"
	"github.com/GregMSThompson/sales-dashboard/internal/models"
	"github.com/GregMSThompson/sales-dashboard/internal/store"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

// SalesSource is where the service loads its record collection from.
type SalesSource interface {
	List(ctx context.Context) ([]models.SalesRecord, error)
	Get(ctx context.Context, id string) (*models.SalesRecord, error)
}

// ViewCache stores computed views between requests.
type ViewCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	Source    SalesSource
	Cache     ViewCache

	closers []func() error
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	ctx := logger.ToContext(applicationCtx, bs.Log)

	switch cfg.DataSource {
	case config.DataSourceFirestore:
		bs.Firestore, err = InitFirestore(ctx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
		bs.closers = append(bs.closers, bs.Firestore.Close)
		bs.Source = store.NewSalesStore(bs.Firestore)
	default:
		bs.Source = store.NewMemoryStore(store.SampleSales())
	}
	bs.Log.Info("sales source configured", "source", cfg.DataSource)

	if cfg.AuthEnabled {
		bs.Firebase, err = InitFirebase(ctx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}

	bs.Cache = InitCache(ctx, cfg)
	return bs, nil
}

// InitCache connects to Redis when an address is configured. An
// unreachable Redis is logged and replaced by the no-op cache.
func InitCache(ctx context.Context, cfg *config.Config) ViewCache {
	log := logger.FromContext(ctx)
	if cfg.RedisAddr == "" {
		log.Info("view cache disabled")
		return cache.NoopViewCache{}
	}

	rc := cache.NewRedisViewCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, view cache disabled", "addr", cfg.RedisAddr, "error", err)
		_ = rc.Close()
		return cache.NoopViewCache{}
	}
	log.Info("view cache connected", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	return rc
}

// Close releases the clients opened by Run.
func (bs *Bootstrap) Close() error {
	var errList []error
	if c, ok := bs.Cache.(interface{ Close() error }); ok {
		errList = append(errList, c.Close())
	}
	for _, c := range bs.closers {
		errList = append(errList, c())
	}
	return errors.Join(errList...)
}
