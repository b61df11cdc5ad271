package mongo

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusvote/election-system/internal/core/domain"
)

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, err := parseID(oid.Hex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != oid {
		t.Errorf("expected %s, got %s", oid.Hex(), got.Hex())
	}

	if _, err := parseID("not-an-id"); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestParseIDs_SkipsMalformed(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	got := parseIDs([]string{a.Hex(), "bogus", "", b.Hex()})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("unexpected ids: %v", got)
	}
}

func TestMustParseIDs_FailsOnMalformed(t *testing.T) {
	if _, err := mustParseIDs([]string{primitive.NewObjectID().Hex(), "bogus"}); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}

	got, err := mustParseIDs(nil)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v, %v", got, err)
	}
}

func TestHexIDs_NeverNil(t *testing.T) {
	if got := hexIDs(nil); got == nil {
		t.Error("expected non-nil slice")
	}
}

func TestIsWriteConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"write conflict code", mongo.CommandError{Code: 112, Name: "WriteConflict"}, true},
		{"transient label", mongo.CommandError{Code: 251, Labels: []string{"TransientTransactionError"}}, true},
		{"wrapped", fmt.Errorf("txn: %w", mongo.CommandError{Code: 112}), true},
		{"other server error", mongo.CommandError{Code: 11000}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWriteConflict(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
