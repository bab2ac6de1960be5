package tasks

import (
	"fmt"

	"github.com/desertthunder/abx/internal/models"
)

// ProgressUpdate reports one extracted record during enumeration.
type ProgressUpdate struct {
	Step    int                  // Records completed so far
	Total   int                  // Records captured when the job started
	Percent int                  // floor(100*Step/Total)
	Message string               // Human-readable message for display
	Contact models.ContactRecord // The record just extracted
}

// Event is one item on a [Job] event stream: a progress update, or the terminal result.
type Event struct {
	Progress *ProgressUpdate
	Contacts []models.ContactRecord
	Err      error
}

// Terminal reports whether e is the last event of the stream.
func (e Event) Terminal() bool {
	return e.Progress == nil
}

// Percent computes the integer percentage of completed over total, rounded down.
//
// A non-positive total yields 0.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return 100 * completed / total
}

func readContactUpdate(step, total int, c models.ContactRecord) ProgressUpdate {
	return ProgressUpdate{
		Step:    step,
		Total:   total,
		Percent: Percent(step, total),
		Message: fmt.Sprintf("[%d/%d] %s", step, total, c.DisplayName()),
		Contact: c,
	}
}
