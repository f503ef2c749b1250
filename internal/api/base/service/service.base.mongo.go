// Package basesvc provides the generic MongoDB repository every domain service embeds.
package basesvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "github.com/oacc1974/Golmarcadmion/internal/api/base/models"
	"github.com/oacc1974/Golmarcadmion/internal/api/events"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
)

// UpdateData is a partial update built from operator maps.
type UpdateData struct {
	Set         map[string]interface{} `bson:"$set,omitempty"`
	SetOnInsert map[string]interface{} `bson:"$setOnInsert,omitempty"` // applied only when an upsert inserts
	Unset       map[string]interface{} `bson:"$unset,omitempty"`
	Push        map[string]interface{} `bson:"$push,omitempty"`
	AddToSet    map[string]interface{} `bson:"$addToSet,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u *UpdateData) IsEmpty() bool {
	return len(u.Set) == 0 && len(u.SetOnInsert) == 0 && len(u.Unset) == 0 && len(u.Push) == 0 && len(u.AddToSet) == 0
}

// ToUpdateData accepts an *UpdateData, a map already keyed by operators, or a plain
// map/struct which is wrapped in $set.
func ToUpdateData(data interface{}) (*UpdateData, error) {
	switch v := data.(type) {
	case *UpdateData:
		return v, nil
	case UpdateData:
		return &v, nil
	case bson.M:
		return mapToUpdateData(v), nil
	case map[string]interface{}:
		return mapToUpdateData(v), nil
	}

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return nil, err
	}
	return mapToUpdateData(dataMap), nil
}

func mapToUpdateData(m map[string]interface{}) *UpdateData {
	if !hasOperator(m) {
		return &UpdateData{Set: m}
	}
	update := &UpdateData{}
	update.Set = asMap(m["$set"])
	update.SetOnInsert = asMap(m["$setOnInsert"])
	update.Unset = asMap(m["$unset"])
	update.Push = asMap(m["$push"])
	update.AddToSet = asMap(m["$addToSet"])
	return update
}

func hasOperator(m map[string]interface{}) bool {
	for _, op := range []string{"$set", "$setOnInsert", "$unset", "$push", "$addToSet"} {
		if _, ok := m[op]; ok {
			return true
		}
	}
	return false
}

func asMap(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case bson.M:
		return m
	}
	return nil
}

// BaseServiceMongo is the repository contract handlers depend on.
type BaseServiceMongo[Model any] interface {
	InsertOne(ctx context.Context, data Model) (Model, error)
	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (Model, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (Model, error)
	FindWithPagination(ctx context.Context, filter interface{}, page basemodels.PageQuery, opts *options.FindOptions) (*basemodels.PaginateResult[Model], error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (Model, error)
	DeleteById(ctx context.Context, id primitive.ObjectID) error
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

// BaseServiceMongoImpl implements BaseServiceMongo on one collection and emits a
// data change event after every successful write.
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo wraps collection.
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{collection: collection}
}

// NewBaseServiceFromRegistry looks up a collection registered at startup.
func NewBaseServiceFromRegistry[T any](name string) (*BaseServiceMongoImpl[T], error) {
	coll, exist := global.RegistryCollections.Get(name)
	if !exist {
		return nil, common.NewError(common.ErrCodeDatabaseConnection, "collection not registered: "+name, common.StatusInternalServerError, nil)
	}
	return NewBaseServiceMongo[T](coll), nil
}

// Collection exposes the underlying collection for aggregations.
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

func (s *BaseServiceMongoImpl[T]) emit(ctx context.Context, op string, doc interface{}) {
	events.EmitDataChanged(ctx, events.DataChangeEvent{
		CollectionName: s.collection.Name(),
		Operation:      op,
		Document:       doc,
	})
}

// InsertOne inserts data and returns the stored document.
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T
	result, err := s.collection.InsertOne(ctx, data)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created T
	if err := s.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpInsert, created)
	return created, nil
}

// FindOne returns common.ErrNotFound when nothing matches.
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var result T
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOne()
	}

	if err := s.collection.FindOne(ctx, filter, opts).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return result, common.ErrNotFound
		}
		return result, common.ConvertMongoError(err)
	}
	return result, nil
}

// Find returns all matches, never nil.
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// FindOneById looks up by _id. The not-found error carries the id.
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	doc, err := s.FindOne(ctx, bson.M{"_id": id}, nil)
	if errors.Is(err, common.ErrNotFound) {
		return doc, common.NotFound(s.collection.Name(), id.Hex())
	}
	return doc, err
}

// FindWithPagination runs a counted, skipped and limited find.
func (s *BaseServiceMongoImpl[T]) FindWithPagination(ctx context.Context, filter interface{}, page basemodels.PageQuery, opts *options.FindOptions) (*basemodels.PaginateResult[T], error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}
	page = page.Normalize(20, 100)
	opts.SetSkip(page.Skip()).SetLimit(page.Limit)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return basemodels.NewPaginateResult(items, page.Page, page.Limit, total), nil
}

// UpdateById applies data (see ToUpdateData) to the document with id and returns it.
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (T, error) {
	var zero T
	update, err := ToUpdateData(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	if update.IsEmpty() {
		return zero, common.InvalidInput("Nothing to update", nil)
	}

	var updated T
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, common.NotFound(s.collection.Name(), id.Hex())
	}
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpUpdate, updated)
	return updated, nil
}

// DeleteById removes the document with id.
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	var deleted T
	err := s.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return common.NotFound(s.collection.Name(), id.Hex())
	}
	if err != nil {
		return common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpDelete, deleted)
	return nil
}

// CountDocuments counts matches.
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	n, err := s.collection.CountDocuments(ctx, filter)
	return n, common.ConvertMongoError(err)
}

// ReplaceOneUpsert replaces the whole document matching filter with doc, inserting it
// when absent. An existing _id is kept because doc carries none.
func (s *BaseServiceMongoImpl[T]) ReplaceOneUpsert(ctx context.Context, filter interface{}, doc T) error {
	_, err := s.collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpReplace, doc)
	return nil
}

// Upsert applies update to the document matching filter, inserting when absent.
func (s *BaseServiceMongoImpl[T]) Upsert(ctx context.Context, filter interface{}, data interface{}) (T, error) {
	var zero T
	update, err := ToUpdateData(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}

	var result T
	err = s.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&result)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpUpsert, result)
	return result, nil
}

// UpdateOneFields sets fields on the document matching filter without reading it back.
func (s *BaseServiceMongoImpl[T]) UpdateOneFields(ctx context.Context, filter interface{}, set bson.M) error {
	res, err := s.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Aggregate runs pipeline and decodes every result into out (a pointer to a slice).
func (s *BaseServiceMongoImpl[T]) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := s.collection.Aggregate(ctx, pipeline, options.Aggregate().SetMaxTime(30*time.Second))
	if err != nil {
		return common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}
