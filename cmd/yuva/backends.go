package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/jozzer182/Yuva"
	"github.com/jozzer182/Yuva/config"
	"github.com/jozzer182/Yuva/identity"
	idmemory "github.com/jozzer182/Yuva/identity/memory"
	"github.com/jozzer182/Yuva/identity/toolkit"
	"github.com/jozzer182/Yuva/store"
	bunstore "github.com/jozzer182/Yuva/store/bun"
	"github.com/jozzer182/Yuva/store/memory"
	mongostore "github.com/jozzer182/Yuva/store/mongo"
	"github.com/jozzer182/Yuva/store/postgres"
	redisstore "github.com/jozzer182/Yuva/store/redis"
)

// openStore connects the configured record store. The returned func
// releases everything openStore opened.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (store.Store, func() error, error) {
	var (
		st      store.Store
		closeFn func() error
	)

	switch cfg.Driver {
	case config.DriverMemory:
		m := memory.New()
		st, closeFn = m, m.Close

	case config.DriverPostgres:
		opts := []postgres.Option{postgres.WithLogger(logger)}
		if cfg.KeyColumn != "" {
			opts = append(opts, postgres.WithKeyColumn(cfg.KeyColumn))
		}
		pg, err := postgres.New(ctx, cfg.DSN, opts...)
		if err != nil {
			return nil, nil, err
		}
		st, closeFn = pg, pg.Close

	case config.DriverBun:
		db, err := openBunDB(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		opts := []bunstore.Option{bunstore.WithLogger(logger)}
		if cfg.KeyColumn != "" {
			opts = append(opts, bunstore.WithKeyColumn(cfg.KeyColumn))
		}
		st, closeFn = bunstore.New(db, opts...), db.Close

	case config.DriverMongo:
		ms, err := mongostore.Open(ctx, cfg.DSN, cfg.Database, mongostore.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		st, closeFn = ms, ms.Close

	case config.DriverRedis:
		opt, err := goredis.ParseURL(cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("yuva/redis: parse dsn: %w", err)
		}
		client := goredis.NewClient(opt)
		st, closeFn = redisstore.New(client, redisstore.WithLogger(logger)), client.Close

	default:
		return nil, nil, fmt.Errorf("%w: %q", yuva.ErrUnknownDriver, cfg.Driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := st.Ping(pingCtx); err != nil {
		_ = closeFn()
		return nil, nil, fmt.Errorf("ping %s store: %w", cfg.Driver, err)
	}
	logger.Info("record store ready", slog.String("driver", cfg.Driver))
	return st, closeFn, nil
}

// openBunDB picks the SQLite dialect for file DSNs and PostgreSQL otherwise.
func openBunDB(dsn string) (*bun.DB, error) {
	if isSQLite(dsn) {
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, fmt.Errorf("yuva/bun: open sqlite: %w", err)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func isSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, "file:") ||
		dsn == ":memory:" ||
		strings.HasSuffix(dsn, ".db") ||
		strings.HasSuffix(dsn, ".sqlite")
}

// openProvider builds the configured identity provider.
func openProvider(cfg config.IdentityConfig, logger *slog.Logger) (identity.Provider, error) {
	switch cfg.Provider {
	case config.ProviderMemory:
		opts := []idmemory.Option{idmemory.WithLogger(logger)}
		if cfg.MaxCredentialAge > 0 {
			opts = append(opts, idmemory.WithMaxCredentialAge(time.Duration(cfg.MaxCredentialAge)))
		}
		p := idmemory.New(opts...)
		for _, a := range cfg.Accounts {
			if _, err := p.AddPasswordAccount(a.Email, a.Password); err != nil {
				return nil, err
			}
		}
		for _, f := range cfg.Federated {
			p.AddFederatedIdentity(f.Provider, f.Token, f.Email)
		}
		return p, nil

	case config.ProviderToolkit:
		opts := []toolkit.Option{toolkit.WithLogger(logger)}
		if cfg.Endpoint != "" {
			opts = append(opts, toolkit.WithEndpoint(cfg.Endpoint))
		}
		return toolkit.New(cfg.APIKey, opts...), nil

	default:
		return nil, fmt.Errorf("unknown identity provider %q", cfg.Provider)
	}
}
