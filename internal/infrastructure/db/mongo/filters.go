package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusvote/election-system/internal/core/domain"
)

// unvotedFilter matches the voter only while it is still in the NotVoted state.
func unvotedFilter(voter primitive.ObjectID) bson.M {
	return bson.M{"_id": voter, "has_voted": false}
}

// ballotsForFilter matches voters holding a ballot for candidate.
func ballotsForFilter(candidate primitive.ObjectID) bson.M {
	return bson.M{"has_voted": true, "voted_for": candidate}
}

// clubSwapFilter pins the voter's stored club list to expected and requires
// room for the clubs next adds on top of it. An empty expected list matches a
// missing, null or empty array alike.
func clubSwapFilter(voter primitive.ObjectID, expected, next []primitive.ObjectID) bson.M {
	filter := bson.M{
		"_id": voter,
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$selected_clubs", bson.A{}}}},
			domain.MaxClubs - (len(next) - len(expected)),
		}},
	}
	if len(expected) == 0 {
		filter["selected_clubs.0"] = bson.M{"$exists": false}
	} else {
		filter["selected_clubs"] = expected
	}
	return filter
}

func ballotTallyPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"has_voted": true, "voted_for": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": "$voted_for", "count": bson.M{"$sum": 1}}}},
	}
}

// voteCountModels builds the bulk overwrite for SetVoteCounts. Each listed
// candidate is only touched when its counter differs; every other candidate
// is zeroed the same way. Malformed ids are skipped.
func voteCountModels(counts map[string]int64, now time.Time) []mongo.WriteModel {
	known := make([]primitive.ObjectID, 0, len(counts))
	models := make([]mongo.WriteModel, 0, len(counts)+1)

	for id, n := range counts {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		known = append(known, oid)
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid, "vote_count": bson.M{"$ne": n}}).
			SetUpdate(bson.M{"$set": bson.M{"vote_count": n, "updated_at": now}}))
	}
	models = append(models, mongo.NewUpdateManyModel().
		SetFilter(bson.M{"_id": bson.M{"$nin": known}, "vote_count": bson.M{"$ne": 0}}).
		SetUpdate(bson.M{"$set": bson.M{"vote_count": int64(0), "updated_at": now}}))
	return models
}
