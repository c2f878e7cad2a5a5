package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"hackathon-backend/entity"
)

type mongoCertificates struct {
	c *mongo.Collection
}

func (s *mongoCertificates) Register(ctx context.Context, cert *entity.Certificate) error {
	filter := bson.M{"team_id": cert.TeamID, "member_id": cert.MemberID}
	res, err := s.c.ReplaceOne(ctx, filter, cert, options.Replace().SetUpsert(true))
	if err != nil {
		return dbError("register certificate", err)
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		cert.ID = id
	}
	return nil
}

func (s *mongoCertificates) Find(ctx context.Context, teamID, memberID primitive.ObjectID) (*entity.Certificate, error) {
	cert := &entity.Certificate{}
	if err := s.c.FindOne(ctx, bson.M{"team_id": teamID, "member_id": memberID}).Decode(cert); err != nil {
		return nil, dbError("find certificate", err)
	}
	return cert, nil
}
