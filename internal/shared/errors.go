package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrUnauthenticated = fmt.Errorf("not authenticated")
	ErrRefreshFailed   = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken  = fmt.Errorf("no refresh token available")

	// API and transport errors
	ErrNetwork        = fmt.Errorf("network request failed")
	ErrServerRejected = fmt.Errorf("server rejected request")
	ErrStaleRange     = fmt.Errorf("stale range response")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Task errors
	ErrNoPendingTasks = fmt.Errorf("no pending tasks")
	ErrTaskNotFound   = fmt.Errorf("task not found")
)
