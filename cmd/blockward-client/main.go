// Command blockward-client calls a BlockWard API server.
//
//	blockward-client --token $JWT issue --student-id 42 --title "Science Fair" --category academic
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/blockward/blockward-backend/api"
	"github.com/blockward/blockward-backend/api/clients"
)

var flagServerAddr = &cli.StringFlag{
	Name:    "server-addr",
	Value:   "http://127.0.0.1:8080",
	Usage:   "BlockWard API server address",
	EnvVars: []string{"BLOCKWARD_SERVER_ADDR"},
}
var flagToken = &cli.StringFlag{
	Name:    "token",
	Usage:   "issuer JWT, see issuer-token",
	EnvVars: []string{"BLOCKWARD_TOKEN"},
}

func main() {
	app := &cli.App{
		Name:  "blockward-client",
		Usage: "Call the BlockWard API",
		Flags: []cli.Flag{flagServerAddr, flagToken},
		Commands: []*cli.Command{
			{
				Name:  "health",
				Usage: "check the platform wallet and RPC endpoint",
				Action: func(cCtx *cli.Context) error {
					resp, err := newClient(cCtx).Health(cCtx.Context)
					if err != nil {
						return fmt.Errorf("health check failed: %w", err)
					}
					return printJSON(cCtx, resp)
				},
			},
			{
				Name:  "issue",
				Usage: "mint a BlockWard to a student",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "student-id", Required: true},
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "category", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{
						Name:  "idempotency-key",
						Usage: "key making retries safe, a random one is generated when empty",
					},
				},
				Action: func(cCtx *cli.Context) error {
					key := cCtx.String("idempotency-key")
					if key == "" {
						key = uuid.NewString()
					}
					resp, err := newClient(cCtx).Issue(cCtx.Context, api.IssueRequest{
						StudentID:   cCtx.String("student-id"),
						Title:       cCtx.String("title"),
						Category:    cCtx.String("category"),
						Description: cCtx.String("description"),
					}, key)
					if err != nil {
						return fmt.Errorf("issuance failed (idempotency key %s): %w", key, err)
					}
					return printJSON(cCtx, resp)
				},
			},
			{
				Name:      "records",
				Usage:     "list a student's BlockWards",
				ArgsUsage: "<student-id>",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.ShowSubcommandHelp(cCtx)
					}
					resp, err := newClient(cCtx).StudentRecords(cCtx.Context, cCtx.Args().First())
					if err != nil {
						return err
					}
					return printJSON(cCtx, resp)
				},
			},
			{
				Name:      "record",
				Usage:     "show one BlockWard",
				ArgsUsage: "<record-id>",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.ShowSubcommandHelp(cCtx)
					}
					resp, err := newClient(cCtx).Record(cCtx.Context, cCtx.Args().First())
					if err != nil {
						return err
					}
					return printJSON(cCtx, resp)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(cCtx *cli.Context) *clients.BlockWardClient {
	return &clients.BlockWardClient{
		ServerAddr: cCtx.String(flagServerAddr.Name),
		Token:      cCtx.String(flagToken.Name),
	}
}

func printJSON(cCtx *cli.Context, v any) error {
	enc := json.NewEncoder(cCtx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
