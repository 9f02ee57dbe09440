package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"platformBack/internal/clock"
	"platformBack/internal/config"
	"platformBack/internal/handlers"
	"platformBack/internal/repositories"
	"platformBack/internal/services"
	"platformBack/internal/ws"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	cfg      config.Config
	db       *sql.DB
	redis    *redis.Client

	invoiceService    *services.InvoiceService
	invoiceHandler    *handlers.InvoiceHandler
	moderationHandler *handlers.ModerationHandler
	campaignHandler   *handlers.CampaignHandler
	moderationHub     *ws.ModerationHub
}

// appLogger adapts the infoLog/errorLog pair to the Infof/Errorf interface.
type appLogger struct {
	info *log.Logger
	err  *log.Logger
}

func (l appLogger) Infof(format string, args ...interface{})  { l.info.Printf(format, args...) }
func (l appLogger) Errorf(format string, args ...interface{}) { l.err.Printf(format, args...) }

func initializeApp(ctx context.Context, cfg config.Config, errorLog, infoLog *log.Logger) (*application, error) {
	dialect, err := repositories.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	db, err := openDB(ctx, dialect, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := repositories.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	infoLog.Printf("Successfully connected to %s database", dialect)

	loc := clock.Location(cfg.Timezone)
	clk := clock.System(loc)

	app := &application{
		errorLog: errorLog,
		infoLog:  infoLog,
		cfg:      cfg,
		db:       db,
	}

	var counter services.CampaignCounter = repositories.NewCampaignEventRepository(db, dialect)
	if cfg.Analytics.Backend == "redis" {
		app.redis, err = openRedis(ctx, cfg)
		if err != nil {
			db.Close()
			return nil, err
		}
		counter = repositories.NewCampaignRedisCounter(app.redis)
		infoLog.Printf("Campaign counters stored in redis at %s", cfg.Redis.Addr)
	}

	// Repositories
	invoiceRepo := repositories.NewInvoiceRepository(db, dialect)
	subscriptionRepo := repositories.NewSubscriptionRepository(db, dialect)
	flagRepo := repositories.NewFlagRepository(db, dialect)
	banRepo := repositories.NewBanRepository(db, dialect)

	app.moderationHub = ws.NewModerationHub(appLogger{info: infoLog, err: errorLog}, clk.Now)

	// Services
	app.invoiceService = services.NewInvoiceService(invoiceRepo, subscriptionRepo, clk)
	moderationService := services.NewModerationService(flagRepo, banRepo, clk, app.moderationHub)
	campaignService := services.NewCampaignService(counter, clk)

	// Handlers
	app.invoiceHandler = &handlers.InvoiceHandler{Service: app.invoiceService}
	app.moderationHandler = &handlers.ModerationHandler{Service: moderationService}
	app.campaignHandler = &handlers.CampaignHandler{Service: campaignService}

	return app, nil
}

func openDB(ctx context.Context, dialect repositories.Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == repositories.DialectSQLite {
		// an in-memory database exists per connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxIdleConns(35)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, nil
}

func openRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (app *application) close() {
	if app.redis != nil {
		app.redis.Close()
	}
	if app.db != nil {
		app.db.Close()
	}
}
