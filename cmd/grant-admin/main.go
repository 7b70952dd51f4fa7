package main

import (
	"context"
	"log"
	"os"
	"time"

	"eau-clair-web/internal/repository"
	"eau-clair-web/pkg/database"
	"eau-clair-web/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	app := &cli.App{
		Name:  "grant-admin",
		Usage: "Flag or unflag a storefront account as admin",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "database_url", EnvVars: []string{"DATABASE_URL"}, Usage: "Postgres DSN of the backend project; falls back to DB_* variables"},
			&cli.StringFlag{Name: "log_mode", Value: "development", EnvVars: []string{"LOG_MODE"}, Usage: "development or production"},
		},
		Commands: []*cli.Command{
			{
				Name:      "grant",
				Usage:     "Give an account admin access",
				ArgsUsage: "<email>",
				Action:    func(c *cli.Context) error { return setAdmin(c, true) },
			},
			{
				Name:      "revoke",
				Usage:     "Remove admin access from an account",
				ArgsUsage: "<email>",
				Action:    func(c *cli.Context) error { return setAdmin(c, false) },
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setAdmin(c *cli.Context, isAdmin bool) error {
	email := c.Args().First()
	if email == "" {
		return cli.Exit("an account email is required", 1)
	}

	if _, err := logger.Init(c.String("log_mode"), ""); err != nil {
		return err
	}

	dsn := c.String("database_url")
	if dsn == "" {
		dsn = database.DSN()
	}
	db, err := database.ConnectDB(dsn)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()

	profiles := repository.NewProfileRepo(db)
	userID, err := profiles.FindUserIDByEmail(ctx, email)
	if err != nil {
		return cli.Exit("no account found for "+email+": "+err.Error(), 1)
	}
	if err := profiles.SetAdmin(ctx, userID, isAdmin); err != nil {
		return cli.Exit("update profile: "+err.Error(), 1)
	}

	zap.L().Info("admin flag updated",
		zap.String("email", email),
		zap.String("user_id", userID.String()),
		zap.Bool("is_admin", isAdmin),
	)
	return nil
}
