package entity

import "time"

type Settings struct {
	SubmissionOpen     bool       `bson:"submission_open" json:"submissionOpen"`
	SubmissionOpenedAt *time.Time `bson:"submission_opened_at,omitempty" json:"openedAt"`
	SubmissionClosedAt *time.Time `bson:"submission_closed_at,omitempty" json:"closedAt"`
	LastUpdatedAt      time.Time  `bson:"last_updated_at" json:"lastUpdatedAt"`
}

// SetOpen flips the submission window and stamps the matching transition time.
func (s *Settings) SetOpen(open bool, now time.Time) {
	s.SubmissionOpen = open
	s.LastUpdatedAt = now
	if open {
		s.SubmissionOpenedAt = &now
	} else {
		s.SubmissionClosedAt = &now
	}
}
