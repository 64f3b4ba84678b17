package actions

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"

	"github.com/shopspring/decimal"
)

// wireDecimals is the maximum precision the venue accepts for any decimal string.
const wireDecimals = 8

// maxPriceSigFigs applies to non-integral prices.
const maxPriceSigFigs = 5

// FloatToWire renders x the way the venue hashes numbers: at most 8 decimals,
// no trailing zeros, no exponent. Values that would lose precision are rejected
// rather than rounded.
func FloatToWire(x float64) (string, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "", false
	}
	d := decimal.NewFromFloat(x)
	rounded := d.Round(wireDecimals)
	if !rounded.Equal(d) {
		return "", false
	}
	if rounded.IsZero() {
		return "0", true
	}
	return rounded.String(), true
}

// FloatToUsdInt converts a USD amount to integer micro-USD. Amounts with more
// than 6 decimals are rejected.
func FloatToUsdInt(x float64) (uint64, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
		return 0, false
	}
	micro := decimal.NewFromFloat(x).Shift(6)
	if !micro.IsInteger() || micro.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, false
	}
	return uint64(micro.IntPart()), true
}

// decimalPlaces counts digits after the point in a normalized wire string.
func decimalPlaces(wire string) int32 {
	i := strings.IndexByte(wire, '.')
	if i < 0 {
		return 0
	}
	return int32(len(wire) - i - 1)
}

// significantFigures counts digits of a normalized wire string, ignoring leading zeros.
func significantFigures(wire string) int {
	digits := strings.TrimLeft(strings.ReplaceAll(strings.TrimPrefix(wire, "-"), ".", ""), "0")
	return len(digits)
}

// SlippagePrice moves midPx by slippage against the taker and rounds the result
// to 5 significant figures and the asset's price decimals, so the result always
// passes order validation.
func SlippagePrice(asset types.Asset, isBuy bool, midPx float64, slippage float64) (float64, error) {
	if !(midPx > 0) || math.IsInf(midPx, 0) {
		return 0, types.NewInvalidParameterError("midPx", fmt.Sprintf("%v", midPx), "must be a finite positive number")
	}
	if !(slippage >= 0 && slippage < 1) {
		return 0, types.NewInvalidParameterError("slippage", fmt.Sprintf("%v", slippage), "must be in [0, 1)")
	}
	px := midPx * (1 - slippage)
	if isBuy {
		px = midPx * (1 + slippage)
	}
	if math.IsNaN(px) || math.IsInf(px, 0) {
		return 0, types.NewInvalidParameterError("midPx", fmt.Sprintf("%v", midPx), "slipped price is not finite")
	}
	px, err := strconv.ParseFloat(strconv.FormatFloat(px, 'g', maxPriceSigFigs, 64), 64)
	if err != nil {
		return 0, types.NewInvalidParameterError("midPx", fmt.Sprintf("%v", midPx), err.Error())
	}
	rounded, _ := decimal.NewFromFloat(px).Round(asset.MaxPriceDecimals()).Float64()
	if !(rounded > 0) {
		return 0, types.NewInvalidParameterError("midPx", fmt.Sprintf("%v", midPx), "rounds to zero for "+asset.Symbol)
	}
	return rounded, nil
}
