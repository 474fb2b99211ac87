package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicreport/civic-portal/internal/core/domain"
)

const eventsCollection = "issue_events"

// EventRepository persists the issue audit trail.
type EventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{coll: db.Collection(eventsCollection)}
}

func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.IssueEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *event
	doc.ID = ""
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert issue event: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.IssueEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"issue_id": issueID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list issue events: %w", err)
	}
	defer cur.Close(ctx)

	var events []domain.IssueEvent
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode issue events: %w", err)
	}
	return events, nil
}

// EnsureIndexes creates the audit trail lookup index.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "issue_id", Value: 1}, {Key: "timestamp", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
