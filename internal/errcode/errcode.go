package errcode

// Error code convention:
// - 0: no error
// - 4xxx: recoverable/advisory errors (the flow may continue)
// - 5xxx: system errors (the flow is aborted)
const (
	OK            = 0
	EmptyResult   = 4001
	PipelineError = 5001
	StoreError    = 5002
)
