package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/poofware/estate-service/internal/config"
	"github.com/poofware/estate-service/internal/constants"
	"github.com/poofware/estate-service/internal/utils"
)

const connectTimeout = 5 * time.Second

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
}

func NewApp(cfg *config.Config) (*App, error) {
	effectiveURL := cfg.DBUrl
	if cfg.LDFlag_UsingIsolatedSchema {
		var err error
		effectiveURL, err = isolatedRoleURL(cfg.DBUrl, cfg.UniqueRunnerID, cfg.UniqueRunNumber)
		if err != nil {
			return nil, err
		}
		utils.Logger.Infof("Using isolated schema for estate-service; role=%s", isolatedRole(cfg.UniqueRunnerID, cfg.UniqueRunNumber))
	} else {
		utils.Logger.Info("Isolated schema disabled; using public schema for estate-service.")
	}

	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = constants.DBConnectInitialBackoff
	)

	for i := 1; i <= constants.DBConnectMaxAttempts; i++ {
		dbPool, err = connect(effectiveURL)
		if err == nil {
			utils.Logger.Infof("estate-service connected to DB on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, constants.DBConnectMaxAttempts, backoff,
		)

		if i == constants.DBConnectMaxAttempts {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", constants.DBConnectMaxAttempts, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	return &App{Config: cfg, DB: dbPool}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("estate-service DB connection closed.")
	}
}

func connect(databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = constants.DBPoolMaxConns
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func isolatedRole(runnerID, runNumber string) string {
	return strings.ToLower(runnerID + "-" + runNumber)
}

// isolatedRoleURL swaps the DB user for the per-run role, keeping the password.
func isolatedRoleURL(baseURL, runnerID, runNumber string) (string, error) {
	if runnerID == "" || runNumber == "" {
		return "", fmt.Errorf("runnerID and runNumber must be non-empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DB URL: %w", err)
	}

	password, _ := u.User.Password()
	u.User = url.UserPassword(isolatedRole(runnerID, runNumber), password)
	return u.String(), nil
}
