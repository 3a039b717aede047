package repository

import (
	"formdocs/internal/model"

	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResponseRepo handles MongoDB operations for form responses
type ResponseRepo interface {
	Create(ctx context.Context, resp *model.Response) (string, error)
	GetByID(ctx context.Context, id string) (*model.Response, error)
	GetByFormID(ctx context.Context, formID string) ([]*model.Response, error)
	CountByFormID(ctx context.Context, formID string) (int64, error)
	UpdateData(ctx context.Context, id string, data map[string]any) error
	SetEditedText(ctx context.Context, id string, text string) error
	Delete(ctx context.Context, id string) error
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) Create(ctx context.Context, resp *model.Response) (string, error) {
	resp.SubmittedAt = time.Now()
	resp.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, resp)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *responseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var resp model.Response
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&resp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	resp.ID = id
	return &resp, nil
}

func (r *responseRepo) GetByFormID(ctx context.Context, formID string) ([]*model.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"formId": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) CountByFormID(ctx context.Context, formID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"formId": formID})
}

// UpdateData replaces the response's entire data map. Overlay saves are a
// full replace, not a merge.
func (r *responseRepo) UpdateData(ctx context.Context, id string, data map[string]any) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"data": data, "updatedAt": time.Now()}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

// SetEditedText stores free-edited document text verbatim, leaving the
// structured data untouched.
func (r *responseRepo) SetEditedText(ctx context.Context, id string, text string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"editedText": text, "updatedAt": time.Now()}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *responseRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
