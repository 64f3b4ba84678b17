package exchangeClient

import (
	"encoding/json"
	"fmt"
)

const (
	Status_Ok  = "ok"
	Status_Err = "err"
)

// VenueResponse is the venue's reply to a submitted envelope. A rejected action is
// a normal response with Status_Err, not a transport failure.
type VenueResponse struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

func (r *VenueResponse) IsOk() bool {
	return r != nil && r.Status == Status_Ok
}

// VenueError is a rejection reported by the venue.
type VenueError struct {
	Message string
}

func (e *VenueError) Error() string {
	return fmt.Sprintf("venue rejected action: %s", e.Message)
}

// Err returns a *VenueError when the venue rejected the action, nil otherwise.
func (r *VenueResponse) Err() error {
	if r.IsOk() {
		return nil
	}
	if r == nil {
		return &VenueError{Message: "empty response"}
	}
	var msg string
	if err := json.Unmarshal(r.Response, &msg); err != nil {
		msg = string(r.Response)
	}
	return &VenueError{Message: msg}
}

type RestingStatus struct {
	Oid   uint64  `json:"oid"`
	Cloid *string `json:"cloid,omitempty"`
}

type FilledStatus struct {
	TotalSz string  `json:"totalSz"`
	AvgPx   string  `json:"avgPx"`
	Oid     uint64  `json:"oid"`
	Cloid   *string `json:"cloid,omitempty"`
}

// OrderStatus is one entry of data.statuses. Entries are either a bare string
// ("success", "waitingForFill", "waitingForTrigger") or an object.
type OrderStatus struct {
	Message string
	Resting *RestingStatus
	Filled  *FilledStatus
	Error   string
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var msg string
	if err := json.Unmarshal(data, &msg); err == nil {
		s.Message = msg
		return nil
	}
	var obj struct {
		Resting *RestingStatus `json:"resting"`
		Filled  *FilledStatus  `json:"filled"`
		Error   string         `json:"error"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Resting = obj.Resting
	s.Filled = obj.Filled
	s.Error = obj.Error
	return nil
}

// Statuses decodes the per-entry results of order and cancel actions, in the
// order the entries were submitted.
func (r *VenueResponse) Statuses() ([]OrderStatus, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}
	var body struct {
		Type string `json:"type"`
		Data *struct {
			Statuses []OrderStatus `json:"statuses"`
		} `json:"data"`
	}
	if err := json.Unmarshal(r.Response, &body); err != nil {
		return nil, fmt.Errorf("failed to decode venue response: %w", err)
	}
	if body.Data == nil {
		return nil, nil
	}
	return body.Data.Statuses, nil
}
