package model

// ChallengeType selects which ledger count drives a challenge's progress.
type ChallengeType string

// Challenge types.
const (
	ChallengeSponsorVisits     ChallengeType = "sponsor_visits"
	ChallengeSurveyCompletion  ChallengeType = "survey_completion"
	ChallengePollVotes         ChallengeType = "poll_votes"
	ChallengeSessionAttendance ChallengeType = "session_attendance"
	ChallengeNetworking        ChallengeType = "networking"
)

// Valid reports whether t is a known challenge type.
func (t ChallengeType) Valid() bool {
	switch t {
	case ChallengeSponsorVisits, ChallengeSurveyCompletion, ChallengePollVotes,
		ChallengeSessionAttendance, ChallengeNetworking:
		return true
	}
	return false
}

// Challenge is a catalog entry. Progress is never stored on it.
type Challenge struct {
	ID           string        `json:"id" yaml:"id"`
	Title        string        `json:"title" yaml:"title"`
	Type         ChallengeType `json:"type" yaml:"type"`
	Target       int           `json:"target" yaml:"target"`
	RewardPoints int           `json:"reward_points" yaml:"reward_points"`
}
