package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	VideoContentMerchant = "merchant"
	VideoContentUGC      = "ugc"

	ProcessingCompleted = "completed"

	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
	ModerationFlagged  = "flagged"
)

type VideoEngagement struct {
	Views    int `json:"views" bson:"views"`
	Likes    int `json:"likes" bson:"likes"`
	Shares   int `json:"shares" bson:"shares"`
	Comments int `json:"comments" bson:"comments"`
	Saves    int `json:"saves" bson:"saves"`
}

type VideoAnalytics struct {
	TotalViews     int            `json:"totalViews" bson:"totalViews"`
	UniqueViews    int            `json:"uniqueViews" bson:"uniqueViews"`
	AvgWatchTime   float64        `json:"avgWatchTime" bson:"avgWatchTime"`
	CompletionRate float64        `json:"completionRate" bson:"completionRate"`
	EngagementRate float64        `json:"engagementRate" bson:"engagementRate"`
	ViewsByDate    map[string]int `json:"viewsByDate" bson:"viewsByDate"`
}

type VideoMetadata struct {
	Duration int    `json:"duration" bson:"duration"`
	Format   string `json:"format,omitempty" bson:"format,omitempty"`
}

type VideoProcessing struct {
	Status string `json:"status" bson:"status"`
}

// Video is promotional or user generated content linked to products and stores
type Video struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title            string               `json:"title" bson:"title"`
	Description      string               `json:"description,omitempty" bson:"description,omitempty"`
	Creator          uint                 `json:"creator" bson:"creator"`
	ContentType      string               `json:"contentType" bson:"contentType"`
	VideoURL         string               `json:"videoUrl" bson:"videoUrl"`
	Thumbnail        string               `json:"thumbnail" bson:"thumbnail"`
	PublicID         string               `json:"publicId,omitempty" bson:"publicId,omitempty"`
	Category         string               `json:"category" bson:"category"`
	Tags             []string             `json:"tags" bson:"tags"`
	Products         []primitive.ObjectID `json:"products" bson:"products"`
	Stores           []primitive.ObjectID `json:"stores" bson:"stores"`
	Engagement       VideoEngagement      `json:"engagement" bson:"engagement"`
	Analytics        VideoAnalytics       `json:"analytics" bson:"analytics"`
	Metadata         VideoMetadata        `json:"metadata" bson:"metadata"`
	Processing       VideoProcessing      `json:"processing" bson:"processing"`
	ModerationStatus string               `json:"moderationStatus" bson:"moderationStatus"`
	IsPublished      bool                 `json:"isPublished" bson:"isPublished"`
	IsFeatured       bool                 `json:"isFeatured" bson:"isFeatured"`
	IsTrending       bool                 `json:"isTrending" bson:"isTrending"`
	PublishedAt      *time.Time           `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// PrimaryStore returns the store that owns a merchant video
func (v *Video) PrimaryStore() (primitive.ObjectID, bool) {
	if len(v.Stores) == 0 {
		return primitive.NilObjectID, false
	}
	return v.Stores[0], true
}

var VideoIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "stores", Value: 1}, {Key: "publishedAt", Value: -1}},
		Options: options.Index().SetName("idx_stores_publishedAt"),
	},
	{
		Keys:    bson.D{{Key: "isPublished", Value: 1}, {Key: "moderationStatus", Value: 1}, {Key: "engagement.views", Value: -1}},
		Options: options.Index().SetName("idx_published_views"),
	},
	{
		Keys:    bson.D{{Key: "creator", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_creator_createdAt"),
	},
}
