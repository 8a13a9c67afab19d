package notify

import "time"

// DeliveryStatus is the per-channel lifecycle state. A delivery never moves
// backward from delivered.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusRetrying  DeliveryStatus = "retrying"
	StatusDelivered DeliveryStatus = "delivered"
	StatusFailed    DeliveryStatus = "failed"
	StatusSkipped   DeliveryStatus = "skipped"
)

// Delivery is the outcome of one channel attempt sequence.
type Delivery struct {
	Channel  Channel        `json:"channel"`
	Status   DeliveryStatus `json:"status"`
	Attempts int            `json:"attempts"`
	Error    string         `json:"error,omitempty"`
}

// Report aggregates per-channel outcomes for one dispatch. Failures on one
// channel never block the others.
type Report struct {
	RecipientID  uint       `json:"recipient_id"`
	Type         string     `json:"type"`
	Deliveries   []Delivery `json:"deliveries"`
	DispatchedAt time.Time  `json:"dispatched_at"`
}

// Outcome returns the delivery for the given channel, if the channel was
// part of the dispatch.
func (r Report) Outcome(ch Channel) (Delivery, bool) {
	for _, d := range r.Deliveries {
		if d.Channel == ch {
			return d, true
		}
	}
	return Delivery{}, false
}

// Delivered reports whether the channel completed successfully.
func (r Report) Delivered(ch Channel) bool {
	d, ok := r.Outcome(ch)
	return ok && d.Status == StatusDelivered
}

// Failed returns the channels that exhausted their attempts.
func (r Report) Failed() []Delivery {
	var failed []Delivery
	for _, d := range r.Deliveries {
		if d.Status == StatusFailed {
			failed = append(failed, d)
		}
	}
	return failed
}
