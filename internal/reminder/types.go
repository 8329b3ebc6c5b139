package reminder

import "time"

// DisplayLayout is how reminder times are shown to users and UI clients.
const DisplayLayout = "03:04 PM 02-Jan"

// Reminder is a one-shot reminder tracked by the Manager.
//
// Triggered is set once by the sweep when TargetTime has passed.
// Acknowledged is set once by PollPopup, and only after Triggered.
type Reminder struct {
	ID           int64     `json:"id"`
	Label        string    `json:"label"`
	TargetTime   time.Time `json:"target_time"`
	RawTimeSpec  string    `json:"raw_time_spec"`
	CreatedAt    time.Time `json:"created_at"`
	Triggered    bool      `json:"triggered"`
	TriggeredAt  time.Time `json:"triggered_at,omitzero"`
	Acknowledged bool      `json:"acknowledged"`
}

// State is the lifecycle position of a reminder.
type State string

const (
	StatePending      State = "pending"
	StateTriggered    State = "triggered"
	StateAcknowledged State = "acknowledged"
)

// State derives the lifecycle state from the flags.
func (r Reminder) State() State {
	switch {
	case r.Acknowledged:
		return StateAcknowledged
	case r.Triggered:
		return StateTriggered
	default:
		return StatePending
	}
}

// DisplayTime formats the target time for users.
func (r Reminder) DisplayTime() string {
	return r.TargetTime.Format(DisplayLayout)
}

// AddResult is returned by a successful Add.
type AddResult struct {
	Reminder  Reminder `json:"reminder"`
	Message   string   `json:"message"`
	TimeUntil string   `json:"time_until"`
}

// Stats summarizes the live collection.
type Stats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	Triggered      int `json:"triggered"`
	Unacknowledged int `json:"unacknowledged"`
}
