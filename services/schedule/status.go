package schedule

import "medibook/models"

// transitions is the single authoritative appointment state machine:
//
//	scheduled -> confirmed -> in-progress -> completed
//	scheduled|confirmed -> cancelled
//	confirmed -> no-show
//
// Terminal states have no outgoing edges. Every status change in the service
// goes through CanTransition; nothing compares status strings elsewhere.
var transitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusScheduled:  {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:  {models.StatusInProgress, models.StatusCancelled, models.StatusNoShow},
	models.StatusInProgress: {models.StatusCompleted},
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to models.AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
