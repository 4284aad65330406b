package control

// Health tracks the sensor failure state machine. The source exhausts
// its in-call retries before reporting a failure, so every failure seen
// here is a full OK→FAILING→FAILED walk; only the FAILED and recovery
// edges are externally notable and each fires exactly once.
type Health struct {
	// Failures is the number of consecutive failed reads.
	Failures int

	failed bool
}

// RecordFailure notes an exhausted read. It returns true only on the
// OK→FAILED edge.
func (h *Health) RecordFailure() bool {
	h.Failures++
	if h.failed {
		return false
	}
	h.failed = true
	return true
}

// RecordSuccess notes a successful read. It returns true only on the
// FAILED→OK edge.
func (h *Health) RecordSuccess() bool {
	h.Failures = 0
	if !h.failed {
		return false
	}
	h.failed = false
	return true
}

// Failed reports whether the sensor is currently in the FAILED state.
func (h *Health) Failed() bool {
	return h.failed
}
