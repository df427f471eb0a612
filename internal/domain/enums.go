package domain

// Outcome is the learner's self-reported result for a card within a round.
type Outcome string

const (
	OutcomeKnown   Outcome = "known"
	OutcomeUnknown Outcome = "unknown"
)

func (o Outcome) String() string { return string(o) }

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeKnown, OutcomeUnknown:
		return true
	}
	return false
}

// StudyMode determines how a session ends: a single pass, or retry rounds
// over the cards still marked unknown.
type StudyMode string

const (
	StudyModeTest          StudyMode = "test"
	StudyModePractice      StudyMode = "practice"
	StudyModeChunkPractice StudyMode = "chunk_practice"
)

func (m StudyMode) String() string { return string(m) }

func (m StudyMode) IsValid() bool {
	switch m {
	case StudyModeTest, StudyModePractice, StudyModeChunkPractice:
		return true
	}
	return false
}

// IsPractice reports whether the mode loops over unknown cards.
func (m StudyMode) IsPractice() bool {
	return m == StudyModePractice || m == StudyModeChunkPractice
}

// CardSide identifies which face of a card is presented.
type CardSide string

const (
	CardSideQuestion CardSide = "question"
	CardSideAnswer   CardSide = "answer"
)

func (s CardSide) String() string { return string(s) }

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleAdmin   UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleStudent, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
