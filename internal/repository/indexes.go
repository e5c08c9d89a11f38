package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureIndexes creates every index in model.CollectionIndexes. Existing indexes with the
// same name and keys are left as they are.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) (int, error) {
	collections := make([]string, 0, len(model.CollectionIndexes))
	for name := range model.CollectionIndexes {
		collections = append(collections, name)
	}
	sort.Strings(collections)

	created := 0
	for _, name := range collections {
		indexes := model.CollectionIndexes[name]
		if len(indexes) == 0 {
			continue
		}
		names, err := db.Collection(name).Indexes().CreateMany(ctx, indexes)
		if err != nil {
			return created, fmt.Errorf("create indexes on %s: %w", name, err)
		}
		created += len(names)
		log.Info("Indexes ensured", zap.String("collection", name), zap.Strings("indexes", names))
	}
	return created, nil
}
