package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"Tasklist/internal/config"
	"Tasklist/internal/migrations"
	"Tasklist/internal/repo"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg    config.Config
	pg     *pgxpool.Pool
	sqlite *sql.DB
	redis  *redis.Client
	items  repo.ItemRepo
	router *gin.Engine
}

func New(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg}

	if err := a.openStore(); err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			a.closeStore()
			return nil, err
		}
		a.redis = rdb
	}

	router, err := newRouter(cfg, a.items, a.redis)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	a.router = router
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.closeStore()
	return nil
}

func (a *App) openStore() error {
	switch a.cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := newPostgres(a.cfg.DB.DSN)
		if err != nil {
			return err
		}
		if a.cfg.DB.Migrate {
			if err := runPGMigrations(pool); err != nil {
				pool.Close()
				return err
			}
		}
		a.pg = pool
		a.items = repo.NewPGItemRepo(pool)
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(a.cfg.DB.DSN)
		if err != nil {
			return err
		}
		if a.cfg.DB.Migrate {
			if err := runMigrations(db, migrations.DialectSQLite); err != nil {
				_ = db.Close()
				return err
			}
		}
		a.sqlite = db
		a.items = repo.NewSQLiteItemRepo(db)
	default:
		return fmt.Errorf("unsupported db driver %q", a.cfg.DB.Driver)
	}
	return nil
}

func (a *App) closeStore() {
	if a.pg != nil {
		a.pg.Close()
	}
	if a.sqlite != nil {
		_ = a.sqlite.Close()
	}
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// runPGMigrations migrates through a database/sql view of the pgx pool.
// Closing that view does not close the pool.
func runPGMigrations(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return runMigrations(db, migrations.DialectPostgres)
}

func runMigrations(db *sql.DB, dialect string) error {
	if err := migrations.Up(db, dialect); err != nil {
		return err
	}
	v, err := migrations.Version(db, dialect)
	if err != nil {
		return err
	}
	log.Printf("%s schema at version %d", dialect, v)
	return nil
}

func newRouter(cfg config.Config, items repo.ItemRepo, rdb *redis.Client) (*gin.Engine, error) {
	if cfg.App.Release() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORS.Origins(),
		AllowMethods:  []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Accept-Language"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	if err := Setup(r, cfg, items, rdb); err != nil {
		return nil, err
	}
	return r, nil
}
