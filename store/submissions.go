package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"hackathon-backend/entity"
)

type mongoSubmissions struct {
	c *mongo.Collection
}

func (s *mongoSubmissions) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, dbError("count submissions", err)
	}
	return n, nil
}

func (s *mongoSubmissions) FindByTeam(ctx context.Context, teamID primitive.ObjectID) (*entity.Submission, error) {
	sub := &entity.Submission{}
	if err := s.c.FindOne(ctx, bson.M{"team_id": teamID}).Decode(sub); err != nil {
		return nil, dbError("find submission", err)
	}
	return sub, nil
}

func (s *mongoSubmissions) Save(ctx context.Context, sub *entity.Submission) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"team_id": sub.TeamID}, sub, options.Replace().SetUpsert(true))
	if err != nil {
		return dbError("save submission", err)
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		sub.ID = id
	}
	return nil
}

func (s *mongoSubmissions) List(ctx context.Context) ([]*entity.Submission, error) {
	subs := make([]*entity.Submission, 0)
	cursor, err := s.c.Find(ctx, bson.M{}, limitOpt(bson.D{{Key: "submitted_at", Value: -1}}, 0))
	if err != nil {
		return nil, dbError("list submissions", err)
	}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, dbError("decode submissions", err)
	}
	return subs, nil
}
