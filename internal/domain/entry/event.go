package entry

import "time"

type ChangeOp string

const (
	OpCreated ChangeOp = "created"
	OpUpdated ChangeOp = "updated"
	OpDeleted ChangeOp = "deleted"
)

// ChangeEvent announces a committed catalogue write.
type ChangeEvent struct {
	Kind Kind     `json:"kind"`
	ID   int      `json:"id"`
	Op   ChangeOp `json:"op"`
	// Cascaded lists solutions removed together with an organisation.
	Cascaded []int     `json:"cascaded,omitempty"`
	At       time.Time `json:"at"`
}
