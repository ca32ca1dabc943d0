package consts

// Keys read by the unified response middleware
const (
	// DETAIL carries the payload of a successful read or create
	// e.g: c.Locals(DETAIL, value)
	DETAIL = "detail"

	// OPERATION marks a successful write with nothing to return
	// e.g: c.Locals(OPERATION, true)
	OPERATION = "operation"
)
