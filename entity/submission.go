package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Submission struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TeamID          primitive.ObjectID `bson:"team_id" json:"teamId"`
	GithubURL       string             `bson:"github_url,omitempty" json:"githubUrl,omitempty"`
	DeployedURL     string             `bson:"deployed_url,omitempty" json:"deployedUrl,omitempty"`
	PresentationURL string             `bson:"presentation_url,omitempty" json:"presentationUrl,omitempty"`
	FileURL         string             `bson:"file_url,omitempty" json:"fileUrl,omitempty"`
	FileName        string             `bson:"file_name,omitempty" json:"fileName,omitempty"`
	SubmittedAt     time.Time          `bson:"submitted_at" json:"submittedAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// HasContent reports whether at least one artifact reference is set.
func (s *Submission) HasContent() bool {
	return s.GithubURL != "" || s.DeployedURL != "" || s.PresentationURL != "" || s.FileURL != ""
}
