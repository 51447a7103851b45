package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements Store on a mongo database. Document ids are uuid
// strings kept in _id so they stay opaque and immutable.
type Mongo struct {
	db *mongo.Database
}

// NewMongo wraps an already-connected database handle.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) Insert(ctx context.Context, collection string, doc Doc) (string, error) {
	id := uuid.NewString()
	stored := bson.M{"_id": id}
	for k, v := range doc {
		if k == "id" {
			continue
		}
		stored[k] = v
	}
	if _, err := m.db.Collection(collection).InsertOne(ctx, stored); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Mongo) Get(ctx context.Context, collection, id string) (Doc, error) {
	var raw bson.M
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromBSON(raw), nil
}

func (m *Mongo) Update(ctx context.Context, collection, id string, fields Doc) error {
	set := bson.M{}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		set[k] = v
	}
	res, err := m.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	res, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Find(ctx context.Context, collection string, filters []Filter, opts FindOpts) ([]Doc, error) {
	fo := options.Find()
	if opts.Sort != nil {
		dir := 1
		if opts.Sort.Desc {
			dir = -1
		}
		// _id as tie breaker keeps the order stable between the count
		// query and the page query.
		fo.SetSort(bson.D{{Key: opts.Sort.Field, Value: dir}, {Key: "_id", Value: 1}})
	} else {
		fo.SetSort(bson.D{{Key: "_id", Value: 1}})
	}
	if opts.Skip > 0 {
		fo.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}

	cursor, err := m.db.Collection(collection).Find(ctx, compileFilters(filters), fo)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []Doc
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		docs = append(docs, fromBSON(raw))
	}
	return docs, cursor.Err()
}

func (m *Mongo) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	return m.db.Collection(collection).CountDocuments(ctx, compileFilters(filters))
}

// compileFilters translates portable filters into a bson query document.
// Gte and Lte on the same field merge into one range clause.
func compileFilters(filters []Filter) bson.M {
	q := bson.M{}
	for _, f := range filters {
		switch f.Op {
		case Eq, Contains:
			// mongo matches array fields element-wise, so Contains is
			// plain equality over the array field.
			q[f.Field] = f.Value
		case Gte:
			rangeClause(q, f.Field)["$gte"] = f.Value
		case Lte:
			rangeClause(q, f.Field)["$lte"] = f.Value
		case Prefix:
			term, _ := f.Value.(string)
			q[f.Field] = bson.M{"$gte": term, "$lt": term + PrefixBound}
		}
	}
	return q
}

func rangeClause(q bson.M, field string) bson.M {
	if clause, ok := q[field].(bson.M); ok {
		return clause
	}
	clause := bson.M{}
	q[field] = clause
	return clause
}

// fromBSON renames _id to id and converts driver primitives back to
// plain Go values so callers above never see bson types.
func fromBSON(raw bson.M) Doc {
	doc := make(Doc, len(raw))
	for k, v := range raw {
		if k == "_id" {
			k = "id"
		}
		doc[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	case primitive.A:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = fromBSONValue(el)
		}
		return out
	case bson.M:
		out := make(Doc, len(t))
		for k, el := range t {
			out[k] = fromBSONValue(el)
		}
		return out
	case bson.D:
		out := make(Doc, len(t))
		for _, el := range t {
			out[el.Key] = fromBSONValue(el.Value)
		}
		return out
	case int32:
		return int(t)
	default:
		return v
	}
}
