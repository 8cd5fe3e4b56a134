// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/carterperez-dev/templates/rpg-backend/internal/auth"
	"github.com/carterperez-dev/templates/rpg-backend/internal/config"
	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
	"github.com/carterperez-dev/templates/rpg-backend/internal/migrations"
	"github.com/carterperez-dev/templates/rpg-backend/internal/user"
)

type account struct {
	Username string
	Email    string
	Password string
	Role     string
}

var defaultAccounts = []account{
	{Username: "admin", Email: "admin@admin.com", Password: "admin", Role: user.RoleAdmin},
	{Username: "user", Email: "user@user.com", Password: "user", Role: user.RoleUser},
}

type accountStore interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreateWithRole(ctx context.Context, username, email, passwordHash, role string) (*user.User, error)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	if err := migrations.Up(cfg.Database.URL, logger); err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()

	tokenSvc := auth.NewTokenService(
		auth.NewRepository(db.DB),
		auth.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Issuer),
		cfg.JWT.AccessTTL(),
		cfg.JWT.RefreshTTL(),
	)
	userSvc := user.NewService(user.NewRepository(db.DB), tokenSvc)

	return seed(ctx, userSvc, defaultAccounts, logger)
}

// seed creates every account whose username is not taken yet.
func seed(
	ctx context.Context,
	store accountStore,
	accounts []account,
	logger *slog.Logger,
) error {
	for _, a := range accounts {
		exists, err := store.UsernameExists(ctx, a.Username)
		if err != nil {
			return fmt.Errorf("seed %s: %w", a.Username, err)
		}
		if exists {
			logger.Info("account already present", "username", a.Username)
			continue
		}

		hash, err := core.HashPassword(a.Password)
		if err != nil {
			return fmt.Errorf("seed %s: hash password: %w", a.Username, err)
		}

		created, err := store.CreateWithRole(ctx, a.Username, a.Email, hash, a.Role)
		if err != nil {
			return fmt.Errorf("seed %s: %w", a.Username, err)
		}

		logger.Info("account created",
			"username", created.Username,
			"role", created.Role,
			"id", created.ID,
		)
	}

	return nil
}
