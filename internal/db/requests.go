package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ukydev/property-maintenance/internal/models"
)

// RequestCollection defines the interface for maintenance request
// persistence operations.
type RequestCollection interface {
	UpsertRequest(ctx context.Context, req models.MaintenanceRequest) error
	FindRequestByID(ctx context.Context, id string) (*models.MaintenanceRequest, error)
	FindRequests(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (RequestCursor, error)
}

// RequestCursor defines the interface for request cursor operations.
type RequestCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// MongoRequestCollection implements RequestCollection for MongoDB.
type MongoRequestCollection struct {
	Collection *mongo.Collection
}

// UpsertRequest writes a request record keyed by its store-assigned id, so
// repeated mirror writes for the same request replace the document.
func (c *MongoRequestCollection) UpsertRequest(ctx context.Context, req models.MaintenanceRequest) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	opts := options.Replace().SetUpsert(true)
	_, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": req.ID}, req, opts)
	return err
}

// FindRequestByID finds a request by its id.
func (c *MongoRequestCollection) FindRequestByID(ctx context.Context, id string) (*models.MaintenanceRequest, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	var req models.MaintenanceRequest
	err := c.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("request not found")
		}
		return nil, err
	}
	return &req, nil
}

// FindRequests queries request records from the collection.
func (c *MongoRequestCollection) FindRequests(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (RequestCursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	var findOptions *options.FindOptions
	if len(opts) > 0 {
		findOptions = opts[0]
	}

	cursor, err := c.Collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	return &mongoRequestCursor{cursor: cursor}, nil
}

// mongoRequestCursor wraps a MongoDB cursor for request queries.
type mongoRequestCursor struct {
	cursor *mongo.Cursor
}

// All retrieves all results from the cursor.
func (m *mongoRequestCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

// Close closes the cursor.
func (m *mongoRequestCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}

// NotificationCollection defines the interface for notification persistence.
type NotificationCollection interface {
	InsertNotification(ctx context.Context, note models.Notification) error
	MarkRead(ctx context.Context, id string) error
}

// MongoNotificationCollection implements NotificationCollection for MongoDB.
type MongoNotificationCollection struct {
	Collection *mongo.Collection
}

// InsertNotification inserts a notification record into the collection.
func (c *MongoNotificationCollection) InsertNotification(ctx context.Context, note models.Notification) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, note)
	return err
}

// MarkRead flags a stored notification as read.
func (c *MongoNotificationCollection) MarkRead(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}
