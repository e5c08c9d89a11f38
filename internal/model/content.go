package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is an upcoming in-store or city event shown on the homepage
type Event struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title    string             `json:"title" bson:"title"`
	Date     time.Time          `json:"date" bson:"date"`
	Location string             `json:"location,omitempty" bson:"location,omitempty"`
	Image    string             `json:"image,omitempty" bson:"image,omitempty"`
	IsActive bool               `json:"isActive" bson:"isActive"`
}

// Article is editorial content shown on the homepage
type Article struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Excerpt     string             `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	CoverImage  string             `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	PublishedAt time.Time          `json:"publishedAt" bson:"publishedAt"`
}
