package persistence

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// MarshalSnapshotRecord serializes a SnapshotRecord to JSON bytes.
func MarshalSnapshotRecord(record *SnapshotRecord) ([]byte, error) {
	if err := record.Validate(); err != nil {
		return nil, errors.Wrap(err, "cannot marshal snapshot record")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal snapshot record")
	}
	return data, nil
}

// UnmarshalSnapshotRecord deserializes a SnapshotRecord from JSON bytes.
func UnmarshalSnapshotRecord(data []byte) (*SnapshotRecord, error) {
	if len(data) == 0 {
		return nil, errors.New("cannot unmarshal empty data")
	}
	var record SnapshotRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal snapshot record")
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return &record, nil
}

// ErrClosed is returned by every backend after Close.
var ErrClosed = errors.New("persistence layer is closed")
