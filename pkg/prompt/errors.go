package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoController is returned when a session is started without a controller.
	ErrNoController = errors.New("prompt: controller is required")
)
