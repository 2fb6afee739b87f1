// Command issuer-token signs a development JWT for an issuer profile with JWT_SECRET.
//
//	issuer-token --issuer-id 5f0c... --name "Grace Hopper" --school "Springfield High"
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/blockward/blockward-backend/api/auth"
	"github.com/blockward/blockward-backend/cmd/flags"
	"github.com/blockward/blockward-backend/config"
)

var tokenFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "issuer-id",
		Required: true,
		Usage:    "issuer profile id, stored as the token subject",
	},
	&cli.StringFlag{
		Name:  "name",
		Usage: "issuer display name used when the profile cannot be loaded",
	},
	&cli.StringFlag{
		Name:  "school",
		Usage: "issuer school name used when the profile cannot be loaded",
	},
	&cli.StringFlag{
		Name:  "role",
		Value: "teacher",
		Usage: "issuer role",
	},
	&cli.DurationFlag{
		Name:  "ttl",
		Value: 24 * time.Hour,
		Usage: "token lifetime",
	},
}

func main() {
	app := &cli.App{
		Name:   "issuer-token",
		Usage:  "Sign an issuer JWT for the BlockWard API",
		Flags:  append([]cli.Flag{flags.EnvFileFlag}, tokenFlags...),
		Before: flags.LoadEnvFile,
		Action: func(cCtx *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			ttl := cCtx.Duration("ttl")
			if ttl <= 0 {
				return fmt.Errorf("ttl must be positive, got %s", ttl)
			}

			token, err := auth.NewToken([]byte(cfg.JWTSecret),
				cCtx.String("issuer-id"),
				cCtx.String("name"),
				cCtx.String("school"),
				cCtx.String("role"),
				ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cCtx.App.Writer, token)
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
