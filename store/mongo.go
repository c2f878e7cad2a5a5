package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"hackathon-backend/errs"
	"hackathon-backend/log"
)

const (
	TeamsCollection        = "teams"
	WaitlistCollection     = "waitlist"
	SubmissionsCollection  = "submissions"
	SettingsCollection     = "settings"
	CheckInsCollection     = "checkins"
	CertificatesCollection = "certificates"
)

// NewMongo wires every collection of db and makes sure the indexes the
// invariants rely on exist.
func NewMongo(ctx context.Context, client *mongo.Client, db string) (*Stores, error) {
	d := client.Database(db)

	indexes := map[string][]mongo.IndexModel{
		TeamsCollection: {
			{Keys: bson.D{{Key: "members.email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		WaitlistCollection: {
			{Keys: bson.D{{Key: "members.email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "registered_at", Value: 1}}},
		},
		SubmissionsCollection: {
			{Keys: bson.D{{Key: "team_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "submitted_at", Value: -1}}},
		},
		CheckInsCollection: {
			{Keys: bson.D{{Key: "team_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CertificatesCollection: {
			{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "member_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for name, models := range indexes {
		if _, err := d.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			log.Logger.Error("unable to create index", zap.String("collection", name), zap.Error(err))
			return nil, err
		}
	}

	return &Stores{
		Teams:        &mongoTeams{c: d.Collection(TeamsCollection)},
		Waitlist:     &mongoWaitlist{c: d.Collection(WaitlistCollection)},
		Submissions:  &mongoSubmissions{c: d.Collection(SubmissionsCollection)},
		Settings:     &mongoSettings{c: d.Collection(SettingsCollection)},
		CheckIns:     &mongoCheckIns{c: d.Collection(CheckInsCollection)},
		Certificates: &mongoCertificates{c: d.Collection(CertificatesCollection)},
	}, nil
}

// dbError logs the driver error and hides it behind the public sentinel.
func dbError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrNotFound
	}

	log.Logger.Error("database error", zap.String("op", op), zap.Error(err))
	return errs.ErrDatabase
}

// emailsInUse returns which of emails appear in members.email of c.
func emailsInUse(ctx context.Context, c *mongo.Collection, emails []string) ([]string, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	cursor, err := c.Find(ctx,
		bson.M{"members.email": bson.M{"$in": emails}},
		options.Find().SetProjection(bson.M{"members.email": 1}),
	)
	if err != nil {
		return nil, dbError("find emails", err)
	}
	defer cursor.Close(context.Background())

	wanted := make(map[string]bool, len(emails))
	for _, e := range emails {
		wanted[e] = true
	}

	var found []string
	for cursor.Next(ctx) {
		doc := struct {
			Members []struct {
				Email string `bson:"email"`
			} `bson:"members"`
		}{}
		if err := cursor.Decode(&doc); err != nil {
			return nil, dbError("decode emails", err)
		}
		for _, m := range doc.Members {
			if wanted[m.Email] {
				found = append(found, m.Email)
				delete(wanted, m.Email)
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, dbError("cursor", err)
	}

	return found, nil
}

func limitOpt(sort bson.D, limit int64) *options.FindOptions {
	o := options.Find().SetSort(sort)
	if limit > 0 {
		o.SetLimit(limit)
	}
	return o
}
