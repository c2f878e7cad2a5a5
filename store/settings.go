package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"hackathon-backend/entity"
)

type mongoSettings struct {
	c *mongo.Collection
}

func (s *mongoSettings) Get(ctx context.Context) (*entity.Settings, error) {
	st := &entity.Settings{}
	err := s.c.FindOne(ctx, bson.M{}).Decode(st)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, dbError("find settings", err)
	}

	st = &entity.Settings{SubmissionOpen: false, LastUpdatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	_, err = s.c.UpdateOne(ctx, bson.M{}, bson.M{"$setOnInsert": st}, options.Update().SetUpsert(true))
	if err != nil {
		return nil, dbError("create settings", err)
	}
	return st, nil
}

func (s *mongoSettings) Save(ctx context.Context, st *entity.Settings) error {
	_, err := s.c.UpdateOne(ctx, bson.M{}, bson.M{"$set": st}, options.Update().SetUpsert(true))
	if err != nil {
		return dbError("save settings", err)
	}
	return nil
}
