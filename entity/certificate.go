package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Certificate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TeamID      primitive.ObjectID `bson:"team_id" json:"teamId"`
	MemberID    primitive.ObjectID `bson:"member_id" json:"memberId"`
	FileName    string             `bson:"file_name" json:"fileName"`
	ObjectKey   string             `bson:"object_key" json:"objectKey"`
	ContentType string             `bson:"content_type" json:"contentType"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
