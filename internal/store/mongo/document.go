package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/alfredjeanlab/marketmaps/internal/model"
)

// document is the stored shape of a map.
type document struct {
	ID        string    `bson:"_id"`
	MapData   string    `bson:"mapData"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d document) toModel() *model.MarketMap {
	return &model.MarketMap{
		ID:        d.ID,
		MapData:   d.MapData,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// upsertUpdate replaces the payload and bumps updatedAt. BSON dates carry
// millisecond precision, so now is truncated to match what is read back.
func upsertUpdate(mapData string, now time.Time) bson.D {
	now = now.Truncate(time.Millisecond)
	return bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "mapData", Value: mapData},
			{Key: "updatedAt", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "createdAt", Value: now},
		}},
	}
}
