// Package store persists the hackathon collections. Mongo is the production
// backend; Memory backs tests and local runs without a database.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"hackathon-backend/entity"
)

type Teams interface {
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, t *entity.Team) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Team, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*entity.Team, error)
	// List returns every team, newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int64) ([]*entity.Team, error)
	// EmailsInUse returns which of the given emails already belong to a member.
	EmailsInUse(ctx context.Context, emails []string) ([]string, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Waitlist interface {
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, w *entity.WaitlistEntry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.WaitlistEntry, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*entity.WaitlistEntry, error)
	// List returns entries most recently registered first.
	List(ctx context.Context, limit int64) ([]*entity.WaitlistEntry, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	EmailsInUse(ctx context.Context, emails []string) ([]string, error)
	// Position is the 1-based FIFO rank of the entry.
	Position(ctx context.Context, w *entity.WaitlistEntry) (int64, error)
}

type Submissions interface {
	Count(ctx context.Context) (int64, error)
	FindByTeam(ctx context.Context, teamID primitive.ObjectID) (*entity.Submission, error)
	// Save upserts keyed by TeamID.
	Save(ctx context.Context, s *entity.Submission) error
	// List returns submissions, latest submittedAt first.
	List(ctx context.Context) ([]*entity.Submission, error)
}

type Settings interface {
	// Get returns the singleton, creating a closed one when none exists.
	Get(ctx context.Context) (*entity.Settings, error)
	Save(ctx context.Context, s *entity.Settings) error
}

type CheckIns interface {
	FindByTeam(ctx context.Context, teamID primitive.ObjectID) (*entity.CheckIn, error)
	FindByTeams(ctx context.Context, teamIDs []primitive.ObjectID) ([]*entity.CheckIn, error)
	// Save upserts keyed by TeamID.
	Save(ctx context.Context, c *entity.CheckIn) error
}

type Certificates interface {
	// Register upserts keyed by (TeamID, MemberID).
	Register(ctx context.Context, c *entity.Certificate) error
	Find(ctx context.Context, teamID, memberID primitive.ObjectID) (*entity.Certificate, error)
}

// Stores bundles every collection a workflow may need.
type Stores struct {
	Teams        Teams
	Waitlist     Waitlist
	Submissions  Submissions
	Settings     Settings
	CheckIns     CheckIns
	Certificates Certificates
}
