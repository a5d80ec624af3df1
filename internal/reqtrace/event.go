package reqtrace

import (
	"fmt"
	"time"
)

// Event records one completed backend request.
type Event struct {
	RequestID string
	Method    string
	Path      string
	Status    int           // HTTP status, 0 when the request never reached the server
	Err       string        // transport or decode error, empty on success
	Start     time.Time
	Duration  time.Duration
}

// Failed reports whether the request ended in an error the user should see.
func (e Event) Failed() bool {
	return e.Err != "" || e.Status >= 400
}

// Outcome renders a short status cell for the requests overlay.
func (e Event) Outcome() string {
	if e.Err != "" {
		return "error"
	}
	if e.Status == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", e.Status)
}
