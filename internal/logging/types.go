package logging

import "time"

// #region decisions
const (
	DecisionApplied  = "applied"
	DecisionRejected = "rejected"
	DecisionNoOp     = "no_op"
)

// #endregion decisions

// #region invocation-entry

// InvocationEntry is a single row in the command_log table.
type InvocationEntry struct {
	InvocationID string
	Command      string
	ArgsJSON     string
	MapID        int // resolved map, 0 when resolution never happened
	Decision     string
	Reason       string
	Writes       int
	CreatedAt    time.Time
}

// #endregion invocation-entry
