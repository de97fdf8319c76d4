package engagement

import "github.com/okian/engage/internal/domain/model"

// PointsPolicy decides a user's point total after switching to event to.
// saved holds the total the user had when last leaving each event id,
// including the event being left.
type PointsPolicy func(saved map[string]int, user model.User, to model.EventConfig) int

// ResetPoints starts every event from zero.
func ResetPoints(map[string]int, model.User, model.EventConfig) int {
	return 0
}

// RestorePerEvent resumes the total the user last had in the target event.
func RestorePerEvent(saved map[string]int, _ model.User, to model.EventConfig) int {
	return saved[to.ID]
}

// PolicyByName maps a config name to a policy: "reset" or "per_event".
func PolicyByName(name string) (PointsPolicy, bool) {
	switch name {
	case "", "reset":
		return ResetPoints, true
	case "per_event":
		return RestorePerEvent, true
	}
	return nil, false
}
