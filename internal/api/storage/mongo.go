package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/cuongbtq/jobster-api/internal/api/domain"
	"github.com/cuongbtq/jobster-api/internal/api/model"
	"github.com/cuongbtq/jobster-api/shared/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
	now    func() time.Time
}

var _ JobStore = (*MongoStore)(nil)

func NewMongoStore(client *mongodb.Client, collection string, logger *slog.Logger) *MongoStore {
	return &MongoStore{
		coll:   client.Collection(collection),
		logger: logger,
		now:    time.Now,
	}
}

// EnsureIndexes creates the owner/recency index used by every list query
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	name, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create jobs index: %w", err)
	}

	s.logger.Info("MongoDB jobs index ready", slog.String("index", name))
	return nil
}

func (s *MongoStore) CreateJob(ctx context.Context, job *model.Job) error {
	if _, err := s.coll.InsertOne(ctx, job); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (s *MongoStore) GetJob(ctx context.Context, userID, jobID string) (*model.Job, error) {
	var job model.Job
	err := s.coll.FindOne(ctx, ownedBy(userID, jobID)).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

func (s *MongoStore) ListJobs(ctx context.Context, q JobQuery) ([]model.Job, error) {
	opts := options.Find().
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))
	if sort := mongoSort(q.Sort); sort != nil {
		opts.SetSort(sort)
	}

	cursor, err := s.coll.Find(ctx, buildMongoFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs := []model.Job{}
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode jobs: %w", err)
	}

	return jobs, nil
}

func (s *MongoStore) CountJobs(ctx context.Context, q JobQuery) (int64, error) {
	total, err := s.coll.CountDocuments(ctx, buildMongoFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return total, nil
}

func (s *MongoStore) UpdateJob(ctx context.Context, userID, jobID string, update model.JobUpdate) (*model.Job, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var job model.Job
	err := s.coll.FindOneAndUpdate(ctx, ownedBy(userID, jobID), buildMongoUpdate(update, s.now().UTC()), opts).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	return &job, nil
}

func (s *MongoStore) DeleteJob(ctx context.Context, userID, jobID string) (*model.Job, error) {
	var job model.Job
	err := s.coll.FindOneAndDelete(ctx, ownedBy(userID, jobID)).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to delete job: %w", err)
	}

	return &job, nil
}

func (s *MongoStore) CountByStatus(ctx context.Context, userID string) (map[string]int64, error) {
	cursor, err := s.coll.Aggregate(ctx, statusPipeline(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate job stats: %w", err)
	}

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode job stats: %w", err)
	}

	stats := make(map[string]int64, len(rows))
	for _, r := range rows {
		stats[r.Status] = r.Count
	}

	return stats, nil
}

func ownedBy(userID, jobID string) bson.M {
	return bson.M{"_id": jobID, "createdBy": userID}
}

// buildMongoFilter mirrors buildJobFilter; search text is quoted so it matches literally
func buildMongoFilter(q JobQuery) bson.M {
	filter := bson.M{"createdBy": q.UserID}

	if q.Search != "" {
		filter["position"] = bson.M{
			"$regex":   regexp.QuoteMeta(q.Search),
			"$options": "i",
		}
	}

	if q.Status != "" {
		filter["status"] = q.Status
	}

	if q.JobType != "" {
		filter["jobType"] = q.JobType
	}

	return filter
}

// mongoSort returns nil for unknown keys, leaving natural order
func mongoSort(sort string) bson.D {
	switch sort {
	case domain.SortLatest:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	case domain.SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortAZ:
		return bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortZA:
		return bson.D{{Key: "position", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return nil
	}
}

func buildMongoUpdate(update model.JobUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}

	if update.Company != nil {
		set["company"] = *update.Company
	}
	if update.Position != nil {
		set["position"] = *update.Position
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.JobType != nil {
		set["jobType"] = *update.JobType
	}
	if update.JobLocation != nil {
		set["jobLocation"] = *update.JobLocation
	}

	return bson.M{"$set": set}
}

func statusPipeline(userID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "createdBy", Value: userID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}
