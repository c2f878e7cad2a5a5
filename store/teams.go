package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"hackathon-backend/entity"
	"hackathon-backend/errs"
	"hackathon-backend/log"
)

type mongoTeams struct {
	c *mongo.Collection
}

func (s *mongoTeams) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, dbError("count teams", err)
	}
	return n, nil
}

func (s *mongoTeams) Insert(ctx context.Context, t *entity.Team) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}

	_, err := s.c.InsertOne(ctx, t)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Logger.Debug("member email already registered", zap.String("team", t.TeamName), zap.Error(err))
			return errs.ErrDuplicateEmail
		}
		return dbError("insert team", err)
	}
	return nil
}

func (s *mongoTeams) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Team, error) {
	t := &entity.Team{}
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(t); err != nil {
		return nil, dbError("find team", err)
	}
	return t, nil
}

func (s *mongoTeams) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*entity.Team, error) {
	teams := make([]*entity.Team, 0)
	if len(ids) == 0 {
		return teams, nil
	}

	cursor, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, dbError("find teams", err)
	}
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, dbError("decode teams", err)
	}
	return teams, nil
}

func (s *mongoTeams) List(ctx context.Context, limit int64) ([]*entity.Team, error) {
	teams := make([]*entity.Team, 0)
	cursor, err := s.c.Find(ctx, bson.M{}, limitOpt(bson.D{{Key: "_id", Value: -1}}, limit))
	if err != nil {
		return nil, dbError("list teams", err)
	}
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, dbError("decode teams", err)
	}
	return teams, nil
}

func (s *mongoTeams) EmailsInUse(ctx context.Context, emails []string) ([]string, error) {
	return emailsInUse(ctx, s.c, emails)
}

func (s *mongoTeams) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return dbError("delete team", err)
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}
