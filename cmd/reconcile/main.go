// Command reconcile reports differences between Minted events of the active
// network's BlockWard contract and the records in the datastore.
//
//	reconcile --datastore postgres://blockward@db/blockward --from-block 5000000
//
// It exits non-zero when the range is not clean.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"github.com/blockward/blockward-backend/chain"
	"github.com/blockward/blockward-backend/cmd/flags"
	"github.com/blockward/blockward-backend/config"
	"github.com/blockward/blockward-backend/reconcile"
	"github.com/blockward/blockward-backend/store"
)

var reconcileFlags = []cli.Flag{
	flags.DatastoreFlag,
	&cli.Uint64Flag{
		Name:     "from-block",
		Required: true,
		Usage:    "first block to scan",
	},
	&cli.Uint64Flag{
		Name:  "to-block",
		Usage: "last block to scan, defaults to the latest block",
	},
	&cli.Uint64Flag{
		Name:  "chunk-size",
		Value: reconcile.DefaultChunkSize,
		Usage: "blocks per log query",
	},
}

func main() {
	app := &cli.App{
		Name:   "reconcile",
		Usage:  "Compare on-chain BlockWard mints with stored records",
		Flags:  append(append([]cli.Flag{flags.LogServiceFlagFn("blockward-reconcile")}, flags.CommonFlags...), reconcileFlags...),
		Before: flags.LoadEnvFile,
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	ctx := cCtx.Context
	logger := flags.SetupLogger(cCtx)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	network := cfg.Active()
	if network.RPCURL == "" || !common.IsHexAddress(network.Contract) {
		return fmt.Errorf("RPC URL and contract address must be configured for %s", network.Mode)
	}

	ds, err := store.Open(ctx, cCtx.String(flags.DatastoreFlag.Name), logger)
	if err != nil {
		return err
	}

	client, err := chain.NewFactory().Dial(ctx, network.RPCURL)
	if err != nil {
		return err
	}
	defer client.Close()

	token, err := chain.NewToken(ctx, client, common.HexToAddress(network.Contract), nil)
	if err != nil {
		return err
	}

	toBlock := cCtx.Uint64("to-block")
	if !cCtx.IsSet("to-block") {
		head, err := client.HeaderByNumber(ctx, nil)
		if err != nil {
			return fmt.Errorf("fetching latest block: %w", err)
		}
		toBlock = head.Number.Uint64()
	}

	logger.Info("Reconciling", "network", network.Label, "contract", network.Contract,
		"fromBlock", cCtx.Uint64("from-block"), "toBlock", toBlock)

	report, err := reconcile.New(token, ds, logger).
		WithChunkSize(cCtx.Uint64("chunk-size")).
		Run(ctx, cCtx.Uint64("from-block"), toBlock)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cCtx.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	if !report.Clean() {
		return cli.Exit(errors.New("chain and datastore disagree"), 2)
	}
	return nil
}
