package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemberCheckIn struct {
	MemberID    primitive.ObjectID `bson:"member_id" json:"memberId"`
	MemberName  string             `bson:"member_name" json:"memberName"`
	MemberEmail string             `bson:"member_email" json:"memberEmail"`
	CheckedIn   bool               `bson:"checked_in" json:"checkedIn"`
	CheckedInAt *time.Time         `bson:"checked_in_at,omitempty" json:"checkedInAt,omitempty"`
}

type CheckIn struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TeamID          primitive.ObjectID `bson:"team_id" json:"teamId"`
	TeamName        string             `bson:"team_name" json:"teamName"`
	IsTeamCheckedIn bool               `bson:"is_team_checked_in" json:"isTeamCheckedIn"`
	CheckedInAt     *time.Time         `bson:"checked_in_at,omitempty" json:"checkedInAt"`
	Members         []MemberCheckIn    `bson:"members" json:"members"`
}

// NewCheckIn builds the default record for a team: nobody checked in.
func NewCheckIn(team *Team) *CheckIn {
	c := &CheckIn{
		TeamID:   team.ID,
		TeamName: team.TeamName,
		Members:  make([]MemberCheckIn, 0, len(team.Members)),
	}
	for _, m := range team.Members {
		c.Members = append(c.Members, MemberCheckIn{
			MemberID:    m.ID,
			MemberName:  m.Name,
			MemberEmail: m.Email,
		})
	}
	return c
}

func (c *CheckIn) SetTeamCheckedIn(checkedIn bool, now time.Time) {
	c.IsTeamCheckedIn = checkedIn
	if checkedIn {
		c.CheckedInAt = &now
	} else {
		c.CheckedInAt = nil
	}
}

// SetMemberCheckedIn toggles one member. It returns false when the member is
// not part of the record.
func (c *CheckIn) SetMemberCheckedIn(memberID primitive.ObjectID, checkedIn bool, now time.Time) bool {
	for i := range c.Members {
		if c.Members[i].MemberID != memberID {
			continue
		}
		c.Members[i].CheckedIn = checkedIn
		if checkedIn {
			c.Members[i].CheckedInAt = &now
		} else {
			c.Members[i].CheckedInAt = nil
		}
		return true
	}
	return false
}

// MemberCheckedIn looks a member up by id, falling back to email.
func (c *CheckIn) MemberCheckedIn(memberID primitive.ObjectID, email string) bool {
	for _, m := range c.Members {
		if m.MemberID == memberID || (email != "" && NormalizeEmail(m.MemberEmail) == NormalizeEmail(email)) {
			return m.CheckedIn
		}
	}
	return false
}
