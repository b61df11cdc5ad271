package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

// BallotRecorder applies a ballot as one transaction: the voter's
// NotVoted -> Voted transition and the candidate's tally increment commit
// together or not at all. Requires a replica set.
type BallotRecorder struct {
	client     *mongo.Client
	voters     *mongo.Collection
	candidates *mongo.Collection
}

func NewBallotRecorder(client *mongo.Client, db *mongo.Database) *BallotRecorder {
	return &BallotRecorder{
		client:     client,
		voters:     db.Collection(collectionVoters),
		candidates: db.Collection(collectionCandidates),
	}
}

var _ ports.BallotRecorder = (*BallotRecorder)(nil)

func (r *BallotRecorder) RecordBallot(ctx context.Context, voterID, candidateID string) (*domain.Candidate, error) {
	vid, err := parseID(voterID)
	if err != nil {
		return nil, err
	}
	cid, err := parseID(candidateID)
	if err != nil {
		return nil, err
	}

	out, err := r.inTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now().UTC()

		res, err := r.voters.UpdateOne(sc,
			unvotedFilter(vid),
			bson.M{"$set": bson.M{"has_voted": true, "voted_for": cid, "updated_at": now}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			n, err := r.voters.CountDocuments(sc, bson.M{"_id": vid})
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, domain.ErrVoterNotFound
			}
			return nil, domain.ErrAlreadyVoted
		}

		var mc mongoCandidate
		err = r.candidates.FindOneAndUpdate(sc,
			bson.M{"_id": cid},
			bson.M{"$inc": bson.M{"vote_count": 1}, "$set": bson.M{"updated_at": now}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&mc)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrCandidateNotFound
			}
			return nil, err
		}
		return mc.toDomain(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("record ballot: %w", err)
	}

	return out.(*domain.Candidate), nil
}

// DeleteUnvotedCandidate counts the candidate's ballots and deletes it in one
// transaction. A RecordBallot racing on the same candidate document
// write-conflicts with the delete; the retried side then sees the other's
// commit, so a ballot is never left pointing at a deleted candidate.
func (r *BallotRecorder) DeleteUnvotedCandidate(ctx context.Context, candidateID string) error {
	cid, err := parseID(candidateID)
	if err != nil {
		return err
	}

	_, err = r.inTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		n, err := r.voters.CountDocuments(sc, ballotsForFilter(cid), options.Count().SetLimit(1))
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, domain.ErrCandidateHasBallots
		}

		res, err := r.candidates.DeleteOne(sc, bson.M{"_id": cid})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	return nil
}

// inTransaction runs fn in a snapshot transaction. Domain errors returned by
// fn pass through unwrapped; a lost write becomes domain.ErrWriteConflict.
func (r *BallotRecorder) inTransaction(ctx context.Context, fn func(mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sess, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	out, err := sess.WithTransaction(ctx, fn, txnOpts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVoterNotFound),
			errors.Is(err, domain.ErrAlreadyVoted),
			errors.Is(err, domain.ErrCandidateNotFound),
			errors.Is(err, domain.ErrCandidateHasBallots):
			return nil, err
		case isWriteConflict(err):
			return nil, domain.ErrWriteConflict
		}
		return nil, err
	}
	return out, nil
}
