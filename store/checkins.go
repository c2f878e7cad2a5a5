package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"hackathon-backend/entity"
)

type mongoCheckIns struct {
	c *mongo.Collection
}

func (s *mongoCheckIns) FindByTeam(ctx context.Context, teamID primitive.ObjectID) (*entity.CheckIn, error) {
	c := &entity.CheckIn{}
	if err := s.c.FindOne(ctx, bson.M{"team_id": teamID}).Decode(c); err != nil {
		return nil, dbError("find checkin", err)
	}
	return c, nil
}

func (s *mongoCheckIns) FindByTeams(ctx context.Context, teamIDs []primitive.ObjectID) ([]*entity.CheckIn, error) {
	checkIns := make([]*entity.CheckIn, 0)
	if len(teamIDs) == 0 {
		return checkIns, nil
	}

	cursor, err := s.c.Find(ctx, bson.M{"team_id": bson.M{"$in": teamIDs}})
	if err != nil {
		return nil, dbError("find checkins", err)
	}
	if err := cursor.All(ctx, &checkIns); err != nil {
		return nil, dbError("decode checkins", err)
	}
	return checkIns, nil
}

func (s *mongoCheckIns) Save(ctx context.Context, c *entity.CheckIn) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"team_id": c.TeamID}, c, options.Replace().SetUpsert(true))
	if err != nil {
		return dbError("save checkin", err)
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return nil
}
