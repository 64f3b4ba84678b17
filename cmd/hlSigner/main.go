package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// a missing .env is fine; flags and the environment still apply
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "hl-signer",
		Usage: "Prepare, sign and submit Hyperliquid exchange actions",
		Description: `Builds exchange actions against the venue's asset metadata and signs them.

Signing can happen in one step (sign with a local key or an AWS KMS key) or in two:
"digest" prints the unsigned components, the digest is signed elsewhere, and
"assemble" combines the action, nonce and signature into a submittable envelope.`,
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "network",
				Aliases: []string{"n"},
				Value:   string(config.Network_Mainnet),
				Usage:   fmt.Sprintf("Network: %s", config.GetSupportedNetworksString()),
				EnvVars: []string{config.EnvNetwork},
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "API base url (defaults to the network's public endpoint)",
				EnvVars: []string{config.EnvBaseUrl},
			},
			&cli.StringFlag{
				Name:    "vault-address",
				Usage:   "Sign L1 actions on behalf of this vault or subaccount",
				EnvVars: []string{config.EnvVaultAddress},
			},
			&cli.Uint64Flag{
				Name:    "expires-after-ms",
				Usage:   "Make L1 actions expire this many milliseconds after their nonce",
				EnvVars: []string{config.EnvExpiresAfterMs},
			},
			&cli.StringFlag{
				Name:    "persistence-type",
				Usage:   "Asset metadata cache: memory, badger or redis (empty disables it)",
				EnvVars: []string{config.EnvPersistenceType},
			},
			&cli.StringFlag{
				Name:    "persistence-path",
				Usage:   "Badger data directory",
				EnvVars: []string{config.EnvPersistencePath},
			},
			&cli.StringFlag{
				Name:    "redis-address",
				Usage:   "Redis host:port",
				EnvVars: []string{config.EnvRedisAddress},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable debug logging",
				EnvVars: []string{config.EnvVerbose},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "digest",
				Usage:  "Prepare an action and print its unsigned components",
				Flags:  actionFlags(),
				Action: digestCommand,
			},
			{
				Name:  "sign",
				Usage: "Sign a 32-byte digest and print the signature",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "digest",
						Usage:    "Digest as 0x-prefixed hex",
						Required: true,
					},
				}, signerFlags()...),
				Action: signCommand,
			},
			{
				Name:  "assemble",
				Usage: "Combine an action, its nonce and a detached signature into an envelope",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "action",
						Usage:    "Action JSON, or @path to read it from a file",
						Required: true,
					},
					&cli.Uint64Flag{
						Name:     "nonce",
						Usage:    "Nonce the digest was computed with",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "r",
						Usage:    "Signature r as hex",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "s",
						Usage:    "Signature s as hex",
						Required: true,
					},
					&cli.Uint64Flag{
						Name:     "v",
						Usage:    "Signature v (0, 1, 27 or 28)",
						Required: true,
					},
					&cli.Uint64Flag{
						Name:  "expires-after",
						Usage: "Absolute expiration timestamp in milliseconds the digest was computed with",
					},
				},
				Action: assembleCommand,
			},
			{
				Name:  "submit",
				Usage: "Prepare, sign and submit an action",
				Flags: append(append(actionFlags(), signerFlags()...),
					&cli.StringFlag{
						Name:    "channel",
						Value:   "http",
						Usage:   "Submission channel: http or ws",
						EnvVars: []string{config.EnvSubmissionChannel},
					},
				),
				Action: submitCommand,
			},
		},
	}
}

func actionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "kind",
			Usage:    "Action: order, market, cancel, cancel-by-cloid, leverage, vault-transfer, usd-send, withdraw, spot-send, approve-builder-fee",
			Required: true,
		},
		&cli.StringFlag{Name: "symbol", Usage: "Asset symbol, e.g. ETH, PURR/USDC or @1"},
		&cli.BoolFlag{Name: "buy", Usage: "Buy side (sell when unset)"},
		&cli.Float64Flag{Name: "price", Usage: "Limit price, or the mid price for market orders"},
		&cli.Float64Flag{Name: "size", Usage: "Order size"},
		&cli.StringFlag{Name: "tif", Value: "Gtc", Usage: "Time in force: Gtc, Ioc or Alo"},
		&cli.BoolFlag{Name: "reduce-only", Usage: "Only reduce an existing position"},
		&cli.Float64Flag{Name: "slippage", Value: 0.05, Usage: "Market order slippage as a fraction"},
		&cli.StringFlag{Name: "cloid", Usage: "Client order id (0x + 32 hex chars)"},
		&cli.Uint64Flag{Name: "oid", Usage: "Order id to cancel"},
		&cli.UintFlag{Name: "leverage", Usage: "Leverage to set"},
		&cli.BoolFlag{Name: "cross", Usage: "Cross margin (isolated when unset)"},
		&cli.StringFlag{Name: "destination", Usage: "Destination, vault or builder address"},
		&cli.Float64Flag{Name: "amount", Usage: "Transfer amount"},
		&cli.StringFlag{Name: "token", Usage: "Spot token name or NAME:tokenId"},
		&cli.BoolFlag{Name: "deposit", Usage: "Deposit into the vault (withdraw when unset)"},
		&cli.StringFlag{Name: "max-fee-rate", Usage: "Maximum builder fee rate, e.g. 0.01%"},
	}
}

func signerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "private-key",
			Usage:   "Hex private key to sign with",
			EnvVars: []string{config.EnvPrivateKey},
		},
		&cli.StringFlag{
			Name:    "kms-key-id",
			Usage:   "AWS KMS key id or ARN to sign with instead of a private key",
			EnvVars: []string{config.EnvAWSKMSKeyID},
		},
		&cli.StringFlag{
			Name:    "aws-region",
			Usage:   "AWS region of the KMS key",
			EnvVars: []string{config.EnvAWSRegion},
		},
	}
}
