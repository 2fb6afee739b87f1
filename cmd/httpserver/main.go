package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/blockward/blockward-backend/api/health"
	"github.com/blockward/blockward-backend/api/issuance"
	"github.com/blockward/blockward-backend/api/records"
	"github.com/blockward/blockward-backend/chain"
	"github.com/blockward/blockward-backend/cmd/flags"
	"github.com/blockward/blockward-backend/common"
	"github.com/blockward/blockward-backend/config"
	"github.com/blockward/blockward-backend/httpserver"
	"github.com/blockward/blockward-backend/idempotency"
	"github.com/blockward/blockward-backend/keysource"
	"github.com/blockward/blockward-backend/metadata"
	"github.com/blockward/blockward-backend/metrics"
	"github.com/blockward/blockward-backend/store"
)

func main() {
	app := &cli.App{
		Name:    "blockward-server",
		Usage:   "Serve the BlockWard issuance API",
		Version: common.Version,
		Flags:   append(append([]cli.Flag{flags.LogServiceFlagFn("blockward-api")}, flags.CommonFlags...), flags.ServerFlags...),
		Before:  flags.LoadEnvFile,
		Action:  run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	chainCfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid chain configuration", "err", err)
		return err
	}
	network := chainCfg.Active()
	logger.Info("Chain configuration loaded",
		"network", network.Label,
		"hasRPC", network.RPCURL != "",
		"hasContract", network.Contract != "",
		"tokenIdMode", chainCfg.TokenIDMode)

	ctx := cCtx.Context

	ds, err := store.Open(ctx, cCtx.String(flags.DatastoreFlag.Name), logger)
	if err != nil {
		logger.Error("Failed to open datastore", "err", err)
		return err
	}
	if c, ok := ds.(io.Closer); ok {
		defer c.Close()
	}

	keys, err := keysource.FromConfig(chainCfg, logger)
	if err != nil {
		logger.Error("Failed to set up key source", "err", err)
		return err
	}
	logger.Info("Key source ready", "source", keys.Name(), "configured", keys.Configured())

	guard, err := idempotency.New(chainCfg.RedisURL, chainCfg.IdempotencyTTL)
	if err != nil {
		logger.Error("Failed to set up idempotency guard", "err", err)
		return err
	}
	if c, ok := guard.(io.Closer); ok {
		defer c.Close()
	}

	publisher := metadata.NewPublisher(chainCfg.IPFSAPIURL, chainCfg.IPFSGatewayURL, logger)
	logger.Info("Metadata publisher ready", "publisher", publisher.Name())

	if chainCfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set, authenticated routes will fail")
	}

	reg := metrics.NewRegistry()
	m := metrics.NewMetrics(common.PackageName, reg)
	chains := chain.NewFactory()

	serverCfg := flags.ConfigureServer(cCtx, logger)
	serverCfg.CoverRequestBudget(issuance.RequestBudget(chainCfg.ChainTimeout))

	server, err := httpserver.New(serverCfg, httpserver.Dependencies{
		Health: health.NewHandler(chainCfg, keys, chains, m, logger),
		Issuance: issuance.NewHandler(issuance.HandlerConfig{
			Chain:     chainCfg,
			Keys:      keys,
			Chains:    chains,
			Store:     ds,
			Publisher: publisher,
			Guard:     guard,
			Metrics:   m,
			Log:       logger,
		}),
		Records:   records.NewHandler(ds, logger),
		Datastore: ds,
		JWTSecret: []byte(chainCfg.JWTSecret),
		Registry:  reg,
	})
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running, press Ctrl+C to stop")
	select {
	case <-exit:
		logger.Info("Shutdown signal received")
	case <-ctx.Done():
	}

	server.Shutdown()
	logger.Info("Server shutdown complete")
	return nil
}
