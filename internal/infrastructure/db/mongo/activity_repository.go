package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskstack/task-tracker/internal/core/domain"
	"github.com/taskstack/task-tracker/internal/core/ports"
)

const activityCollection = "task_activity"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	db *mongo.Database
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) ports.ActivityRepository {
	return &ActivityRepository{db: db}
}

// Insert persists an activity entry to the task_activity audit collection.
func (r *ActivityRepository) Insert(ctx context.Context, activity *domain.TaskActivity) error {
	doc := bson.M{
		"task_id":     activity.TaskID,
		"action":      string(activity.Action),
		"title":       activity.Title,
		"timestamp":   activity.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if activity.Actor != "" {
		doc["actor"] = activity.Actor
	}

	_, err := r.db.Collection(activityCollection).InsertOne(ctx, doc)
	return err
}

// FindByTaskID returns the trail for one task, oldest first.
func (r *ActivityRepository) FindByTaskID(ctx context.Context, taskID string) ([]*domain.TaskActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.db.Collection(activityCollection).Find(ctx, bson.M{"task_id": taskID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.TaskActivity
	for cursor.Next(ctx) {
		var doc struct {
			TaskID    string    `bson:"task_id"`
			Action    string    `bson:"action"`
			Title     string    `bson:"title"`
			Actor     string    `bson:"actor"`
			Timestamp time.Time `bson:"timestamp"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		entries = append(entries, &domain.TaskActivity{
			TaskID:    doc.TaskID,
			Action:    domain.ActivityAction(doc.Action),
			Title:     doc.Title,
			Actor:     doc.Actor,
			Timestamp: doc.Timestamp.UTC(),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return entries, nil
}
