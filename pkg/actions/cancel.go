package actions

import (
	"fmt"

	"github.com/Layr-Labs/hl-txsigner-go/pkg/types"
)

func NewCancel(asset types.Asset, oid uint64) (*Cancel, error) {
	if oid == 0 {
		return nil, types.NewInvalidParameterError("oid", "0", "order id must be set")
	}
	return &Cancel{Asset: asset.Index, Oid: oid}, nil
}

type CancelRequest struct {
	Asset types.Asset
	Oid   uint64
}

// NewBulkCancel keeps the caller's order; the venue hashes the list as given.
func NewBulkCancel(requests []CancelRequest) (*BulkCancel, error) {
	if len(requests) == 0 {
		return nil, types.NewInvalidParameterError("cancels", "", "at least one cancel is required")
	}
	cancels := make([]CancelSpec, 0, len(requests))
	for i, req := range requests {
		if req.Oid == 0 {
			return nil, types.NewInvalidParameterError(fmt.Sprintf("cancels[%d].oid", i), "0", "order id must be set")
		}
		cancels = append(cancels, CancelSpec{Asset: req.Asset.Index, Oid: req.Oid})
	}
	return &BulkCancel{Cancels: cancels}, nil
}

type CancelByCloidRequest struct {
	Asset types.Asset
	Cloid types.Cloid
}

func NewCancelByCloid(requests []CancelByCloidRequest) (*CancelByCloid, error) {
	if len(requests) == 0 {
		return nil, types.NewInvalidParameterError("cancels", "", "at least one cancel is required")
	}
	cancels := make([]CancelByCloidSpec, 0, len(requests))
	for i, req := range requests {
		if req.Cloid == (types.Cloid{}) {
			return nil, types.NewInvalidParameterError(fmt.Sprintf("cancels[%d].cloid", i), req.Cloid.String(), "cloid must be set")
		}
		cancels = append(cancels, CancelByCloidSpec{Asset: req.Asset.Index, Cloid: req.Cloid})
	}
	return &CancelByCloid{Cancels: cancels}, nil
}

// NewUpdateLeverage rejects spot assets and leverage outside [1, MaxLeverage].
// A MaxLeverage of zero means the directory did not publish a limit.
func NewUpdateLeverage(asset types.Asset, isCross bool, leverage uint32) (*UpdateLeverage, error) {
	if asset.IsSpot {
		return nil, types.NewInvalidParameterError("asset", asset.Symbol, "leverage applies to perpetual assets only")
	}
	if leverage == 0 {
		return nil, types.NewInvalidParameterError("leverage", "0", "must be at least 1")
	}
	if asset.MaxLeverage > 0 && leverage > asset.MaxLeverage {
		return nil, types.NewInvalidParameterError("leverage", fmt.Sprintf("%d", leverage),
			fmt.Sprintf("%s allows at most %dx", asset.Symbol, asset.MaxLeverage))
	}
	return &UpdateLeverage{Asset: asset.Index, IsCross: isCross, Leverage: leverage}, nil
}
