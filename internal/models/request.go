package models

import "time"

// RequestState is the derived lifecycle state of a coaching request.
type RequestState string

const (
	// RequestStatePending indicates the mentor has not yet accepted.
	RequestStatePending RequestState = "pending"
	// RequestStateAccepted indicates an accepted, still-open transaction.
	RequestStateAccepted RequestState = "accepted"
	// RequestStateClosed indicates all requested workouts have been paid.
	RequestStateClosed RequestState = "closed"
)

// Request is the coaching transaction between one mentor and one mentee,
// bounded by acceptance and full payment. A denied request is deleted outright,
// a closed one stays as history. At most one request per pair may be open
// (transaction_over = false) at any time.
type Request struct {
	ID       uint   `gorm:"primaryKey" json:"request_id"`
	MentorID string `gorm:"size:128;not null;index:idx_requests_pair" json:"mentor_id"`
	MenteeID string `gorm:"size:128;not null;index:idx_requests_pair" json:"mentee_id"`
	Message  string `gorm:"type:text" json:"message"`

	// MentorAccepted moves false -> true exactly once.
	MentorAccepted bool `gorm:"not null" json:"mentor_accepted"`

	// NumWorkoutsRequested is fixed at creation and always positive.
	NumWorkoutsRequested int `gorm:"not null" json:"num_workouts_requested"`

	// WorkoutsCreated grows only after acceptance, up to the quota.
	WorkoutsCreated StringList `gorm:"type:text" json:"workouts_created"`

	// WorkoutsPaid is an ordered, duplicate-free subset of WorkoutsCreated
	// and grows only while the transaction is open.
	WorkoutsPaid StringList `gorm:"type:text" json:"workouts_paid"`

	// TransactionOver becomes true exactly when every requested workout has
	// been paid for; it never reverts.
	TransactionOver bool `gorm:"not null;index" json:"transaction_over"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Request) TableName() string {
	return "requests"
}

// State derives the lifecycle state from the stored flags.
func (r *Request) State() RequestState {
	switch {
	case r.TransactionOver:
		return RequestStateClosed
	case r.MentorAccepted:
		return RequestStateAccepted
	default:
		return RequestStatePending
	}
}
