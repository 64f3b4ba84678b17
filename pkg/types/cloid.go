package types

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
)

// Cloid is a 16-byte client order id, rendered as 0x followed by 32 hex chars.
type Cloid [16]byte

func NewCloidFromString(value string) (Cloid, error) {
	var c Cloid
	raw, err := hexutil.Decode(value)
	if err != nil {
		return c, NewInvalidParameterError("cloid", value, fmt.Sprintf("invalid hex: %v", err))
	}
	if len(raw) != len(c) {
		return c, NewInvalidParameterError("cloid", value, fmt.Sprintf("must be 16 bytes, got %d", len(raw)))
	}
	copy(c[:], raw)
	return c, nil
}

func NewCloidFromUint64(value uint64) Cloid {
	var c Cloid
	for i := 0; i < 8; i++ {
		c[15-i] = byte(value >> (8 * i))
	}
	return c
}

// NewRandomCloid uses a v4 UUID as the 16 random bytes.
func NewRandomCloid() Cloid {
	return Cloid(uuid.New())
}

func (c Cloid) String() string {
	return hexutil.Encode(c[:])
}

func (c Cloid) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Cloid) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewCloidFromString(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
