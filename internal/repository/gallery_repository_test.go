package repository

import (
	"testing"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestActiveItemsExcludesDeleted(t *testing.T) {
	owner := primitive.NewObjectID()

	filter := activeItems(storeOwnerField, owner, false)
	assert.Equal(t, bson.M{
		"deletedAt": bson.M{"$exists": false},
		"storeId":   owner,
	}, filter)

	visible := activeItems(productOwnerField, owner, true)
	assert.Equal(t, bson.M{
		"deletedAt": bson.M{"$exists": false},
		"productId": owner,
		"isVisible": true,
	}, visible)
}

func TestActiveItemsReturnsFreshFilter(t *testing.T) {
	owner := primitive.NewObjectID()

	first := activeItems(storeOwnerField, owner, false)
	first["category"] = "menu"

	second := activeItems(storeOwnerField, owner, false)
	assert.NotContains(t, second, "category")
	assert.Equal(t, bson.M{"$exists": false}, model.NotDeleted()["deletedAt"])
}

func TestGalleryListFilter(t *testing.T) {
	owner := primitive.NewObjectID()

	filter := galleryListFilter(productOwnerField, domain.GalleryQuery{
		OwnerID:     owner,
		Category:    "variant",
		Type:        model.GalleryTypeImage,
		VariantID:   "red",
		VisibleOnly: true,
	})
	assert.Equal(t, bson.M{
		"deletedAt": bson.M{"$exists": false},
		"productId": owner,
		"isVisible": true,
		"category":  "variant",
		"type":      model.GalleryTypeImage,
		"variantId": "red",
	}, filter)

	bare := galleryListFilter(storeOwnerField, domain.GalleryQuery{OwnerID: owner})
	assert.Equal(t, bson.M{"deletedAt": bson.M{"$exists": false}, "storeId": owner}, bare)
}

func TestGallerySort(t *testing.T) {
	cases := []struct {
		name string
		q    domain.GalleryQuery
		want bson.D
	}{
		{"default", domain.GalleryQuery{}, bson.D{{Key: "order", Value: 1}, {Key: "uploadedAt", Value: -1}}},
		{"newest first", domain.GalleryQuery{SortBy: "uploadedAt", Descending: true}, bson.D{{Key: "uploadedAt", Value: -1}}},
		{"most viewed", domain.GalleryQuery{SortBy: "views", Descending: true}, bson.D{{Key: "views", Value: -1}, {Key: "uploadedAt", Value: -1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, gallerySort(tc.q))
		})
	}
}

func TestUnsetCoverFilterKeepsNewCover(t *testing.T) {
	owner := primitive.NewObjectID()
	keep := primitive.NewObjectID()

	filter := unsetCoverFilter(storeOwnerField, owner, "menu", keep)
	assert.Equal(t, bson.M{
		"deletedAt": bson.M{"$exists": false},
		"storeId":   owner,
		"category":  "menu",
		"isCover":   true,
		"_id":       bson.M{"$ne": keep},
	}, filter)

	ownerWide := unsetCoverFilter(productOwnerField, owner, "", keep)
	assert.NotContains(t, ownerWide, "category")
	assert.Equal(t, owner, ownerWide["productId"])
	assert.Equal(t, bson.M{"$ne": keep}, ownerWide["_id"])
}

func TestSoftDeleteUpdateHidesAndUncovers(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	update := softDeleteUpdate(at)
	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, at, set["deletedAt"])
	assert.Equal(t, at, set["updatedAt"])
	assert.Equal(t, false, set["isVisible"])
	assert.Equal(t, false, set["isCover"])
}

func TestCategoryPipelineShape(t *testing.T) {
	match := activeItems(storeOwnerField, primitive.NewObjectID(), true)
	pipeline := categoryPipeline(match)

	stages := make([]string, 0, len(pipeline))
	for _, stage := range pipeline {
		require.Len(t, stage, 1)
		stages = append(stages, stage[0].Key)
	}
	assert.Equal(t, []string{"$match", "$addFields", "$addFields", "$sort", "$group", "$sort"}, stages)
	assert.Equal(t, match, pipeline[0][0].Value)

	sort := pipeline[3][0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "hasPreview", Value: -1}, {Key: "isCover", Value: -1}, {Key: "order", Value: 1}}, sort)

	group := pipeline[4][0].Value.(bson.D)
	assert.Equal(t, bson.E{Key: "_id", Value: "$category"}, group[0])
	assert.Equal(t, bson.E{Key: "coverImage", Value: bson.D{{Key: "$first", Value: "$preview"}}}, group[2])
}

func TestCategoryPreviewSkipsVideoURL(t *testing.T) {
	pipeline := categoryPipeline(bson.M{})
	fields := pipeline[1][0].Value.(bson.D)
	require.Equal(t, "preview", fields[0].Key)

	ifNull := fields[0].Value.(bson.D)[0]
	assert.Equal(t, "$ifNull", ifNull.Key)
	args := ifNull.Value.(bson.A)
	assert.Equal(t, "$thumbnail", args[0])

	cond := args[1].(bson.D)[0].Value.(bson.A)
	assert.Equal(t, bson.D{{Key: "$eq", Value: bson.A{"$type", model.GalleryTypeImage}}}, cond[0])
	assert.Equal(t, "$url", cond[1])
	assert.Nil(t, cond[2])
}
