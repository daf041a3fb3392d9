package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pulseboard/go-board-backend/internal/projects/domain"
)

// ProjectRepository provides persistence operations for project
// aggregates. Every mutation is either a single conditional update
// matched by project id (+ nested element id) or a whole-document
// replace guarded by the optimistic version token.
type ProjectRepository struct {
	col *mongo.Collection
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection("projects")}
}

// New is an alias for NewProjectRepository.
func New(db *mongo.Database) *ProjectRepository {
	return NewProjectRepository(db)
}

// EnsureIndexes creates the unique index backing project title
// uniqueness. Safe to call on every startup.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure title index: %w", err)
	}
	return nil
}

// Insert persists a new project. A duplicate title surfaces as
// domain.ErrDuplicateTitle.
func (r *ProjectRepository) Insert(ctx context.Context, p *domain.Project) error {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateTitle
		}
		return fmt.Errorf("insert project: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// List returns project summaries without their task arrays.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	opts := options.Find().
		SetProjection(bson.M{"task": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]domain.Project, 0, 16)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return out, nil
}

// FindByID loads the full aggregate.
func (r *ProjectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	var p domain.Project
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &p, nil
}

// FindTask returns a single task via an $elemMatch positional
// projection, without loading the sibling tasks.
func (r *ProjectRepository) FindTask(ctx context.Context, projectID, taskID primitive.ObjectID) (*domain.Task, error) {
	filter := bson.M{"_id": projectID, "task._id": taskID}
	opts := options.FindOne().SetProjection(bson.M{"task.$": 1})

	var p domain.Project
	err := r.col.FindOne(ctx, filter, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.missingTaskErr(ctx, projectID)
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	if len(p.Tasks) == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return &p.Tasks[0], nil
}

// missingTaskErr distinguishes an absent project from an absent task.
func (r *ProjectRepository) missingTaskErr(ctx context.Context, projectID primitive.ObjectID) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": projectID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("check project: %w", err)
	}
	if n == 0 {
		return domain.ErrProjectNotFound
	}
	return domain.ErrTaskNotFound
}

// UpdateProjectInfo rewrites title/description on the project document.
// The write advances the document version so a racing whole-document
// replace holding the old snapshot fails its version check instead of
// reverting this edit.
func (r *ProjectRepository) UpdateProjectInfo(ctx context.Context, id primitive.ObjectID, title, description string) error {
	update := bson.M{
		"$set": bson.M{
			"title":       title,
			"description": description,
			"updated_at":  time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateTitle
		}
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// Delete removes the whole aggregate and reports how many documents went.
func (r *ProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete project: %w", err)
	}
	return res.DeletedCount, nil
}

// NextTaskIndex atomically bumps the per-project task sequence and
// returns the new value. Task indices are strictly increasing and never
// reused, even under concurrent adds.
func (r *ProjectRepository) NextTaskIndex(ctx context.Context, projectID primitive.ObjectID) (int, error) {
	update := bson.M{"$inc": bson.M{"task_seq": 1}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"task_seq": 1})

	var p domain.Project
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": projectID}, update, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrProjectNotFound
		}
		return 0, fmt.Errorf("next task index: %w", err)
	}
	return p.TaskSeq, nil
}

// PushTask appends a task to the project's array.
func (r *ProjectRepository) PushTask(ctx context.Context, projectID primitive.ObjectID, task *domain.Task) error {
	update := bson.M{"$push": bson.M{"task": task}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": projectID}, update)
	if err != nil {
		return fmt.Errorf("push task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// PullTask removes a task by id. Zero modified means the task was
// already gone; callers treat that as a no-op.
func (r *ProjectRepository) PullTask(ctx context.Context, projectID, taskID primitive.ObjectID) (int64, error) {
	update := bson.M{"$pull": bson.M{"task": bson.M{"_id": taskID}}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": projectID}, update)
	if err != nil {
		return 0, fmt.Errorf("pull task: %w", err)
	}
	if res.MatchedCount == 0 {
		return 0, domain.ErrProjectNotFound
	}
	return res.ModifiedCount, nil
}

// SetTaskInfo rewrites title/description of one task via the positional
// operator, advancing the document version like UpdateProjectInfo.
func (r *ProjectRepository) SetTaskInfo(ctx context.Context, projectID, taskID primitive.ObjectID, title, description string) error {
	filter := bson.M{
		"_id":  projectID,
		"task": bson.M{"$elemMatch": bson.M{"_id": taskID}},
	}
	update := bson.M{
		"$set": bson.M{
			"task.$.title":       title,
			"task.$.description": description,
			"task.$.updated_at":  time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("set task info: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missingTaskErr(ctx, projectID)
	}
	return nil
}

// SetTaskPlacement moves one task to a stage/order slot. Each call is an
// independent conditional write; board reorders issue one per task. The
// version bump makes every matched placement count as modified and
// shields it from a racing whole-document replace.
func (r *ProjectRepository) SetTaskPlacement(ctx context.Context, projectID, taskID primitive.ObjectID, stage domain.Stage, order int) (int64, error) {
	filter := bson.M{
		"_id":  projectID,
		"task": bson.M{"$elemMatch": bson.M{"_id": taskID}},
	}
	update := bson.M{
		"$set": bson.M{
			"task.$.stage":      stage,
			"task.$.order":      order,
			"task.$.updated_at": time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("set task placement: %w", err)
	}
	return res.ModifiedCount, nil
}

// PushSubtask appends a subtask to one task.
func (r *ProjectRepository) PushSubtask(ctx context.Context, projectID, taskID primitive.ObjectID, sub *domain.Subtask) error {
	return r.pushTaskElement(ctx, projectID, taskID, "subtasks", sub)
}

// PushComment appends a comment to one task.
func (r *ProjectRepository) PushComment(ctx context.Context, projectID, taskID primitive.ObjectID, comment *domain.Comment) error {
	return r.pushTaskElement(ctx, projectID, taskID, "comments", comment)
}

// PullComment removes a comment by id and reports whether anything changed.
func (r *ProjectRepository) PullComment(ctx context.Context, projectID, taskID, commentID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"_id":  projectID,
		"task": bson.M{"$elemMatch": bson.M{"_id": taskID}},
	}
	update := bson.M{"$pull": bson.M{"task.$.comments": bson.M{"_id": commentID}}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("pull comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return 0, r.missingTaskErr(ctx, projectID)
	}
	return res.ModifiedCount, nil
}

// PushTimeEntry appends a time entry to one task, but only when the task
// has no open entry left. Zero matched with the guard present means
// either the chain is broken or tracking is already active.
func (r *ProjectRepository) PushTimeEntry(ctx context.Context, projectID, taskID primitive.ObjectID, entry *domain.TimeEntry) error {
	filter := bson.M{
		"_id": projectID,
		"task": bson.M{"$elemMatch": bson.M{
			"_id": taskID,
			"time_entries": bson.M{"$not": bson.M{"$elemMatch": bson.M{
				"end_time": bson.M{"$exists": false},
			}}},
		}},
	}
	update := bson.M{"$push": bson.M{"task.$.time_entries": entry}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("push time entry: %w", err)
	}
	if res.MatchedCount == 0 {
		if err := r.missingTaskErr(ctx, projectID); !errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		task, err := r.FindTask(ctx, projectID, taskID)
		if err != nil {
			return err
		}
		if task.OpenEntry() != nil {
			return domain.ErrTrackingActive
		}
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *ProjectRepository) pushTaskElement(ctx context.Context, projectID, taskID primitive.ObjectID, field string, value interface{}) error {
	filter := bson.M{
		"_id":  projectID,
		"task": bson.M{"$elemMatch": bson.M{"_id": taskID}},
	}
	update := bson.M{"$push": bson.M{"task.$." + field: value}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("push %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return r.missingTaskErr(ctx, projectID)
	}
	return nil
}

// Replace persists a whole aggregate mutated in memory. The filter pins
// the version read before the mutation; a concurrent writer makes the
// match fail and the caller gets domain.ErrVersionConflict instead of a
// silent lost update.
func (r *ProjectRepository) Replace(ctx context.Context, p *domain.Project) error {
	filter := bson.M{"_id": p.ID, "version": p.Version}
	p.Version++
	p.UpdatedAt = time.Now()

	res, err := r.col.ReplaceOne(ctx, filter, p)
	if err != nil {
		p.Version--
		return fmt.Errorf("replace project: %w", err)
	}
	if res.MatchedCount == 0 {
		p.Version--
		return domain.ErrVersionConflict
	}
	return nil
}
