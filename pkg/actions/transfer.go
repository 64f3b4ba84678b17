package actions

import (
	"fmt"
	"strings"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/config"
	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// maxBuilderFeeRate caps ApproveBuilderFee at 1%.
var maxBuilderFeeRate = decimal.NewFromInt(1)

func NewVaultTransfer(vault common.Address, isDeposit bool, usd float64) (*VaultTransfer, error) {
	if err := requireAddress("vaultAddress", vault); err != nil {
		return nil, err
	}
	if !(usd > 0) {
		return nil, types.NewInvalidParameterError("usd", fmt.Sprintf("%v", usd), "must be a finite positive number")
	}
	micro, ok := FloatToUsdInt(usd)
	if !ok {
		return nil, types.NewInvalidParameterError("usd", fmt.Sprintf("%v", usd), "must be finite with at most 6 decimals")
	}
	return &VaultTransfer{VaultAddress: types.LowerHex(vault), IsDeposit: isDeposit, Usd: micro}, nil
}

// NewUsdTransfer sends USDC between perp accounts. time is the unix-ms timestamp
// that also serves as the signing nonce.
func NewUsdTransfer(chain config.HyperliquidChain, destination common.Address, amount float64, time uint64) (*UsdTransfer, error) {
	wire, err := transferFields(chain, destination, amount, time)
	if err != nil {
		return nil, err
	}
	return &UsdTransfer{HyperliquidChain: chain, Destination: types.LowerHex(destination), Amount: wire, Time: time}, nil
}

func NewWithdraw(chain config.HyperliquidChain, destination common.Address, amount float64, time uint64) (*Withdraw, error) {
	wire, err := transferFields(chain, destination, amount, time)
	if err != nil {
		return nil, err
	}
	return &Withdraw{HyperliquidChain: chain, Destination: types.LowerHex(destination), Amount: wire, Time: time}, nil
}

func NewSpotTransfer(chain config.HyperliquidChain, destination common.Address, token types.SpotToken, amount float64, time uint64) (*SpotTransfer, error) {
	if token.Name == "" || token.TokenID == "" {
		return nil, types.NewInvalidParameterError("token", token.Name, "token name and id are required")
	}
	wire, err := transferFields(chain, destination, amount, time)
	if err != nil {
		return nil, err
	}
	if places := decimalPlaces(wire); places > int32(token.WeiDecimals) {
		return nil, types.NewInvalidParameterError("amount", wire,
			fmt.Sprintf("%s amounts may have at most %d decimals", token.Name, token.WeiDecimals))
	}
	return &SpotTransfer{
		HyperliquidChain: chain,
		Destination:      types.LowerHex(destination),
		Token:            token.Wire(),
		Amount:           wire,
		Time:             time,
	}, nil
}

// NewApproveBuilderFee authorizes builder to charge up to maxFeeRate, a percentage
// string such as "0.001%".
func NewApproveBuilderFee(chain config.HyperliquidChain, builder common.Address, maxFeeRate string, nonce uint64) (*ApproveBuilderFee, error) {
	if err := requireChain(chain); err != nil {
		return nil, err
	}
	if err := requireAddress("builder", builder); err != nil {
		return nil, err
	}
	if nonce == 0 {
		return nil, types.NewInvalidParameterError("nonce", "0", "must be set")
	}
	if !strings.HasSuffix(maxFeeRate, "%") {
		return nil, types.NewInvalidParameterError("maxFeeRate", maxFeeRate, "must be a percentage such as 0.001%")
	}
	rate, err := decimal.NewFromString(strings.TrimSuffix(maxFeeRate, "%"))
	if err != nil || !rate.IsPositive() || rate.GreaterThan(maxBuilderFeeRate) {
		return nil, types.NewInvalidParameterError("maxFeeRate", maxFeeRate, "must be greater than 0% and at most 1%")
	}
	return &ApproveBuilderFee{
		HyperliquidChain: chain,
		MaxFeeRate:       maxFeeRate,
		Builder:          types.LowerHex(builder),
		Nonce:            nonce,
	}, nil
}

func transferFields(chain config.HyperliquidChain, destination common.Address, amount float64, time uint64) (string, error) {
	if err := requireChain(chain); err != nil {
		return "", err
	}
	if err := requireAddress("destination", destination); err != nil {
		return "", err
	}
	if time == 0 {
		return "", types.NewInvalidParameterError("time", "0", "must be set")
	}
	return positiveToWire("amount", amount)
}

func requireChain(chain config.HyperliquidChain) error {
	if chain != config.HyperliquidChain_Mainnet && chain != config.HyperliquidChain_Testnet {
		return types.NewInvalidParameterError("hyperliquidChain", string(chain), "must be Mainnet or Testnet")
	}
	return nil
}

func requireAddress(field string, addr common.Address) error {
	if addr == (common.Address{}) {
		return types.NewInvalidParameterError(field, addr.Hex(), "must not be the zero address")
	}
	return nil
}
