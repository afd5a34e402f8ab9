package reposition

import "github.com/rs/zerolog"

// LoggingCollaborator is the demo/standalone Collaborator used when no
// external driver-dispatch system is wired: it always accepts, logging the
// action so an operator can see what the planner decided. A real
// deployment replaces this with the fleet app's push-notification
// pathway (spec.md §6), in the teacher's driver_queue.go accept-by-default
// shape before any live driver responds.
type LoggingCollaborator struct {
	Log zerolog.Logger
}

// SendRepositionRequest implements Collaborator.
func (c LoggingCollaborator) SendRepositionRequest(a Action) (bool, string, error) {
	c.Log.Info().
		Str("driver_id", a.DriverID.String()).
		Str("to_cell", a.GridID).
		Str("priority", string(a.Priority)).
		Msg("reposition request sent")
	return true, "", nil
}
