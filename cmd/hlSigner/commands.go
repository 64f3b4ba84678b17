package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/actions"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/envelope"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/txBuilder"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

// prepareFromFlags builds the action named by --kind.
func prepareFromFlags(c *cli.Context, b *txBuilder.UnsignedTransactionBuilder) (*txBuilder.UnsignedComponents, error) {
	var cloid *types.Cloid
	if v := c.String("cloid"); v != "" {
		parsed, err := types.NewCloidFromString(v)
		if err != nil {
			return nil, err
		}
		cloid = &parsed
	}
	symbol := c.String("symbol")

	kind := c.String("kind")
	switch kind {
	case "order":
		return b.PrepareOrder(txBuilder.OrderIntent{
			Symbol:     symbol,
			IsBuy:      c.Bool("buy"),
			LimitPx:    c.Float64("price"),
			Size:       c.Float64("size"),
			ReduceOnly: c.Bool("reduce-only"),
			OrderType:  actions.LimitOrder(actions.Tif(c.String("tif"))),
			Cloid:      cloid,
		}, nil)
	case "market":
		return b.PrepareMarketOrder(symbol, c.Bool("buy"), c.Float64("size"), c.Float64("price"), c.Float64("slippage"), cloid)
	case "cancel":
		return b.PrepareCancel(symbol, c.Uint64("oid"))
	case "cancel-by-cloid":
		if cloid == nil {
			return nil, types.NewInvalidParameterError("cloid", "", "required for cancel-by-cloid")
		}
		return b.PrepareCancelByCloid([]txBuilder.CancelByCloidIntent{{Symbol: symbol, Cloid: *cloid}})
	case "leverage":
		leverage := c.Uint("leverage")
		if uint64(leverage) > math.MaxUint32 {
			return nil, types.NewInvalidParameterError("leverage", fmt.Sprintf("%d", leverage), "out of range")
		}
		return b.PrepareUpdateLeverage(symbol, c.Bool("cross"), uint32(leverage))
	case "vault-transfer", "usd-send", "withdraw", "spot-send", "approve-builder-fee":
		return prepareTransfer(c, b, kind)
	default:
		return nil, types.NewInvalidParameterError("kind", kind, "unsupported action kind")
	}
}

func prepareTransfer(c *cli.Context, b *txBuilder.UnsignedTransactionBuilder, kind string) (*txBuilder.UnsignedComponents, error) {
	destination, err := addressFlag(c, "destination")
	if err != nil {
		return nil, err
	}
	switch kind {
	case "vault-transfer":
		return b.PrepareVaultTransfer(destination, c.Bool("deposit"), c.Float64("amount"))
	case "usd-send":
		return b.PrepareUsdTransfer(destination, c.Float64("amount"))
	case "withdraw":
		return b.PrepareWithdraw(destination, c.Float64("amount"))
	case "spot-send":
		return b.PrepareSpotTransfer(destination, c.String("token"), c.Float64("amount"))
	default:
		return b.PrepareApproveBuilderFee(destination, c.String("max-fee-rate"))
	}
}

func addressFlag(c *cli.Context, name string) (common.Address, error) {
	v := c.String(name)
	if !common.IsHexAddress(v) {
		return common.Address{}, types.NewInvalidParameterError(name, v, "must be a hex address")
	}
	return common.HexToAddress(v), nil
}

// readActionJSON accepts inline JSON or @path.
func readActionJSON(value string) (json.RawMessage, error) {
	if path, ok := strings.CutPrefix(value, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read action file: %w", err)
		}
		return data, nil
	}
	return json.RawMessage(value), nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func digestCommand(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	components, err := prepareFromFlags(c, s.builder)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, components)
}

func signCommand(c *cli.Context) error {
	digestBytes, err := hexutil.Decode(c.String("digest"))
	if err != nil || len(digestBytes) != common.HashLength {
		return types.NewInvalidParameterError("digest", c.String("digest"), "must be 32 bytes of 0x-prefixed hex")
	}
	l, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	sgn, err := newSigner(c, l)
	if err != nil {
		return err
	}
	sig, err := sgn.SignDigest(c.Context, common.BytesToHash(digestBytes))
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, struct {
		Signer    string          `json:"signer"`
		Signature types.Signature `json:"signature"`
	}{Signer: sgn.Address().Hex(), Signature: *sig})
}

func assembleCommand(c *cli.Context) error {
	cfg, err := clientConfigFromFlags(c)
	if err != nil {
		return err
	}
	action, err := readActionJSON(c.String("action"))
	if err != nil {
		return err
	}
	sig, err := types.NewSignatureFromRSV(c.String("r"), c.String("s"), c.Uint64("v"))
	if err != nil {
		return err
	}
	var expiresAfter *uint64
	if c.IsSet("expires-after") {
		e := c.Uint64("expires-after")
		expiresAfter = &e
	}

	env, err := envelope.Assemble(action, c.Uint64("nonce"), sig, cfg.GetVaultAddress(), expiresAfter)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, env)
}

func submitCommand(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	sgn, err := newSigner(c, s.logger)
	if err != nil {
		return err
	}
	submitter, closeSubmitter, err := newSubmitter(c.Context, c.String("channel"), s.cfg, s.logger)
	if err != nil {
		return err
	}
	defer closeSubmitter()

	components, err := prepareFromFlags(c, s.builder)
	if err != nil {
		return err
	}
	env, err := s.builder.SignAndAssemble(c.Context, components, sgn)
	if err != nil {
		return err
	}

	s.logger.Sugar().Infow("Submitting action",
		"kind", components.Action.Kind(),
		"nonce", env.Nonce,
		"signer", sgn.Address().Hex(),
	)
	resp, err := submitter.Submit(c.Context, env)
	if err != nil {
		return err
	}
	if err := printJSON(c.App.Writer, resp); err != nil {
		return err
	}
	return resp.Err()
}
