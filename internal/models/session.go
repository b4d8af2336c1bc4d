package models

// Session is the roster for one bill while it is being edited.
// Participants and items are mutated through discrete commands
// (add participant, add item, remove participant, clear items) and
// the calculator reads a snapshot of it.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// Config is the bill base plus tax and service charges.
	Config BillConfig

	// Participants in the order they were added.
	Participants []Participant

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last mutation.
	UpdatedAt int64
}

// Participant returns the participant with the given ID.
func (s *Session) Participant(id string) (*Participant, bool) {
	for i := range s.Participants {
		if s.Participants[i].ID == id {
			return &s.Participants[i], true
		}
	}
	return nil, false
}
