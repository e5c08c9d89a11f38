package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Category struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Slug      string             `json:"slug" bson:"slug"`
	Type      string             `json:"type,omitempty" bson:"type,omitempty"`
	Icon      string             `json:"icon,omitempty" bson:"icon,omitempty"`
	Image     string             `json:"image,omitempty" bson:"image,omitempty"`
	SortOrder int                `json:"sortOrder" bson:"sortOrder"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

var CategoryIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetName("uniq_slug").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "sortOrder", Value: 1}},
		Options: options.Index().SetName("idx_isActive_sortOrder"),
	},
}
