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

type mongoWaitlist struct {
	c *mongo.Collection
}

func (s *mongoWaitlist) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, dbError("count waitlist", err)
	}
	return n, nil
}

func (s *mongoWaitlist) Insert(ctx context.Context, w *entity.WaitlistEntry) error {
	if w.ID.IsZero() {
		w.ID = primitive.NewObjectID()
	}

	_, err := s.c.InsertOne(ctx, w)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Logger.Debug("member email already waitlisted", zap.String("team", w.TeamName), zap.Error(err))
			return errs.ErrDuplicateEmail
		}
		return dbError("insert waitlist", err)
	}
	return nil
}

func (s *mongoWaitlist) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.WaitlistEntry, error) {
	w := &entity.WaitlistEntry{}
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(w); err != nil {
		return nil, dbError("find waitlist entry", err)
	}
	return w, nil
}

func (s *mongoWaitlist) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*entity.WaitlistEntry, error) {
	entries := make([]*entity.WaitlistEntry, 0)
	if len(ids) == 0 {
		return entries, nil
	}

	cursor, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, dbError("find waitlist entries", err)
	}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, dbError("decode waitlist entries", err)
	}
	return entries, nil
}

func (s *mongoWaitlist) List(ctx context.Context, limit int64) ([]*entity.WaitlistEntry, error) {
	entries := make([]*entity.WaitlistEntry, 0)
	cursor, err := s.c.Find(ctx, bson.M{}, limitOpt(bson.D{{Key: "registered_at", Value: -1}}, limit))
	if err != nil {
		return nil, dbError("list waitlist", err)
	}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, dbError("decode waitlist entries", err)
	}
	return entries, nil
}

func (s *mongoWaitlist) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return dbError("delete waitlist entry", err)
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *mongoWaitlist) EmailsInUse(ctx context.Context, emails []string) ([]string, error) {
	return emailsInUse(ctx, s.c, emails)
}

func (s *mongoWaitlist) Position(ctx context.Context, w *entity.WaitlistEntry) (int64, error) {
	ahead, err := s.c.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"registered_at": bson.M{"$lt": w.RegisteredAt}},
		bson.M{"registered_at": w.RegisteredAt, "_id": bson.M{"$lt": w.ID}},
	}})
	if err != nil {
		return 0, dbError("waitlist position", err)
	}
	return ahead + 1, nil
}
