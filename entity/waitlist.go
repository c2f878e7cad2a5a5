package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WaitlistEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TeamName     string             `bson:"team_name" json:"teamName"`
	TeamSize     int                `bson:"team_size" json:"teamSize"`
	Experience   string             `bson:"experience" json:"experience"`
	Members      []Member           `bson:"members" json:"teamMembers"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registeredAt"`
}

func (w *WaitlistEntry) Emails() []string {
	return memberEmails(w.Members)
}

// ToTeam copies the entry into a fresh Team. The team id is left zero so the
// store mints a new one; member ids carry over.
func (w *WaitlistEntry) ToTeam() *Team {
	members := make([]Member, len(w.Members))
	copy(members, w.Members)

	return &Team{
		TeamName:   w.TeamName,
		TeamSize:   w.TeamSize,
		Experience: w.Experience,
		Members:    members,
	}
}

// AsTeam views a waitlisted team through the Team shape, keeping its id.
func (w *WaitlistEntry) AsTeam() *Team {
	t := w.ToTeam()
	t.ID = w.ID
	return t
}
