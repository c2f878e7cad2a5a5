package entity

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultExperience = "No Experience Provided."

type Member struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Phone string             `bson:"phone" json:"phone"`
}

type Team struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TeamName   string             `bson:"team_name" json:"teamName"`
	TeamSize   int                `bson:"team_size" json:"teamSize"`
	Experience string             `bson:"experience" json:"experience"`
	Members    []Member           `bson:"members" json:"teamMembers"`
}

// MemberNames returns the member names in registration order.
func (t *Team) MemberNames() []string {
	names := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		names = append(names, m.Name)
	}
	return names
}

func (t *Team) Emails() []string {
	return memberEmails(t.Members)
}

func memberEmails(members []Member) []string {
	emails := make([]string, 0, len(members))
	for _, m := range members {
		if m.Email != "" {
			emails = append(emails, m.Email)
		}
	}
	return emails
}

// NormalizeEmail is the form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
