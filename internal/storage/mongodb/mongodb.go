// Package mongodb is the document-store implementation of
// storage.Storage. Students and admins live in the "students" and
// "admins" collections; identifiers are ObjectIDs exposed as hex strings.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/portal-api/internal/config"
	"github.com/aanand-mishra/portal-api/internal/storage"
	"github.com/aanand-mishra/portal-api/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	studentsCollection = "students"
	adminsCollection   = "admins"
)

// Mongo holds the client for the lifetime of the process. It is created
// once in main and closed on shutdown.
type Mongo struct {
	client   *mongo.Client
	students *mongo.Collection
	admins   *mongo.Collection
}

// New connects to the server at cfg.URI and pings it, so a bad URI or an
// unreachable server fails at startup instead of on the first request.
func New(ctx context.Context, cfg config.Mongo) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb.New: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb.New: ping: %w", err)
	}

	return newFromDatabase(client.Database(cfg.Database)), nil
}

func newFromDatabase(db *mongo.Database) *Mongo {
	return &Mongo{
		client:   db.Client(),
		students: db.Collection(studentsCollection),
		admins:   db.Collection(adminsCollection),
	}
}

// studentDocument is the stored shape: the record fields inline plus the
// ObjectID under _id.
type studentDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	types.Student `bson:",inline"`
}

func (d studentDocument) record() types.Student {
	s := d.Student
	s.ID = d.ID.Hex()
	return s
}

type adminDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	types.Admin `bson:",inline"`
}

func (d adminDocument) record() types.Admin {
	a := d.Admin
	a.ID = d.ID.Hex()
	return a
}

type document[R any] interface {
	record() R
}

func (m *Mongo) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	doc := studentDocument{ID: primitive.NewObjectID(), Student: student}

	if _, err := m.students.InsertOne(ctx, doc); err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: insert: %w", err)
	}

	return doc.record(), nil
}

func (m *Mongo) GetStudents(ctx context.Context) ([]types.Student, error) {
	students, err := findAll[studentDocument, types.Student](ctx, m.students)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: %w", err)
	}
	return students, nil
}

func (m *Mongo) UpdateStudentByID(ctx context.Context, id string, patch types.Patch) (types.Student, storage.Outcome, error) {
	student, outcome, err := updateByID[studentDocument, types.Student](ctx, m.students, id, patch)
	if err != nil {
		return types.Student{}, outcome, fmt.Errorf("UpdateStudentByID: %w", err)
	}
	return student, outcome, nil
}

func (m *Mongo) DeleteStudentByID(ctx context.Context, id string) (storage.Outcome, error) {
	outcome, err := deleteByID(ctx, m.students, id)
	if err != nil {
		return outcome, fmt.Errorf("DeleteStudentByID: %w", err)
	}
	return outcome, nil
}

func (m *Mongo) CreateAdmin(ctx context.Context, admin types.Admin) (types.Admin, error) {
	doc := adminDocument{ID: primitive.NewObjectID(), Admin: admin}

	if _, err := m.admins.InsertOne(ctx, doc); err != nil {
		return types.Admin{}, fmt.Errorf("CreateAdmin: insert: %w", err)
	}

	return doc.record(), nil
}

func (m *Mongo) GetAdmins(ctx context.Context) ([]types.Admin, error) {
	admins, err := findAll[adminDocument, types.Admin](ctx, m.admins)
	if err != nil {
		return nil, fmt.Errorf("GetAdmins: %w", err)
	}
	return admins, nil
}

func (m *Mongo) UpdateAdminByID(ctx context.Context, id string, patch types.Patch) (types.Admin, storage.Outcome, error) {
	admin, outcome, err := updateByID[adminDocument, types.Admin](ctx, m.admins, id, patch)
	if err != nil {
		return types.Admin{}, outcome, fmt.Errorf("UpdateAdminByID: %w", err)
	}
	return admin, outcome, nil
}

func (m *Mongo) DeleteAdminByID(ctx context.Context, id string) (storage.Outcome, error) {
	outcome, err := deleteByID(ctx, m.admins, id)
	if err != nil {
		return outcome, fmt.Errorf("DeleteAdminByID: %w", err)
	}
	return outcome, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// findAll returns every document in insertion order. ObjectIDs start with
// their creation second, so sorting on _id follows insert order.
func findAll[D document[R], R any](ctx context.Context, coll *mongo.Collection) ([]R, error) {
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	records := make([]R, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.record())
	}

	return records, nil
}

// updateByID applies patch with $set and returns the document as it is
// after the update. An empty patch reads the document unchanged, since
// the server rejects an empty $set.
func updateByID[D document[R], R any](ctx context.Context, coll *mongo.Collection, id string, patch types.Patch) (R, storage.Outcome, error) {
	var zero R

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, storage.OutcomeFault, fmt.Errorf("cast to ObjectId failed for value %q: %w", id, err)
	}

	filter := bson.M{"_id": oid}

	var result *mongo.SingleResult
	if len(patch) == 0 {
		result = coll.FindOne(ctx, filter)
	} else {
		result = coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": patch},
			options.FindOneAndUpdate().SetReturnDocument(options.After))
	}

	var doc D
	err = result.Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, storage.OutcomeNotFound, nil
	}
	if err != nil {
		return zero, storage.OutcomeFault, fmt.Errorf("find and update: %w", err)
	}

	return doc.record(), storage.OutcomeApplied, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) (storage.Outcome, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.OutcomeFault, fmt.Errorf("cast to ObjectId failed for value %q: %w", id, err)
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storage.OutcomeFault, fmt.Errorf("delete: %w", err)
	}

	if res.DeletedCount == 0 {
		return storage.OutcomeNotFound, nil
	}

	return storage.OutcomeApplied, nil
}
