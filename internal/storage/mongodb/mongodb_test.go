package mongodb

import (
	"context"
	"testing"

	"github.com/aanand-mishra/portal-api/internal/storage"
	"github.com/aanand-mishra/portal-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var _ storage.Storage = (*Mongo)(nil)

func Test_CreateStudent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := m.CreateStudent(context.Background(), types.Student{
			StudentID: types.StringPtr("S1"),
			FirstName: types.StringPtr("Ada"),
		})

		require.NoError(t, err)
		assert.True(t, primitive.IsValidObjectID(created.ID))
		assert.Equal(t, "S1", *created.StudentID)
		assert.Nil(t, created.File)
	})

	mt.Run("write error", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := m.CreateStudent(context.Background(), types.Student{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate key error")
	})
}

func Test_CreateAdmin(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := m.CreateAdmin(context.Background(), types.Admin{
			AdminID:    types.StringPtr("A1"),
			Department: types.StringPtr("IT"),
			File:       types.StringPtr("/uploads/badge.png"),
		})

		require.NoError(t, err)
		assert.True(t, primitive.IsValidObjectID(created.ID))
		assert.Equal(t, "IT", *created.Department)
		assert.Equal(t, "/uploads/badge.png", *created.File)
	})

	mt.Run("write error", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := m.CreateAdmin(context.Background(), types.Admin{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "CreateAdmin")
	})
}

func Test_GetAdmins(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("two documents", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "portalDB.admins", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: first},
				{Key: "adminID", Value: "A1"},
				{Key: "firstName", Value: "Jane"},
				{Key: "lastName", Value: "Doe"},
				{Key: "department", Value: "IT"},
				{Key: "file", Value: nil},
			},
			bson.D{
				{Key: "_id", Value: second},
				{Key: "adminID", Value: "A2"},
				{Key: "file", Value: "/uploads/x.png"},
			},
		))

		admins, err := m.GetAdmins(context.Background())

		require.NoError(t, err)
		require.Len(t, admins, 2)
		assert.Equal(t, types.Admin{
			ID:         first.Hex(),
			AdminID:    types.StringPtr("A1"),
			FirstName:  types.StringPtr("Jane"),
			LastName:   types.StringPtr("Doe"),
			Department: types.StringPtr("IT"),
		}, admins[0])
		assert.Equal(t, second.Hex(), admins[1].ID)
		assert.Nil(t, admins[1].FirstName)
		assert.Equal(t, "/uploads/x.png", *admins[1].File)
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "portalDB.admins", mtest.FirstBatch))

		admins, err := m.GetAdmins(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, admins)
		assert.Empty(t, admins)
	})
}

func Test_UpdateStudentByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("applied", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		id := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "firstName", Value: "Ada"},
			{Key: "lastName", Value: "X"},
			{Key: "section", Value: "B"},
			{Key: "file", Value: nil},
		}}))

		student, outcome, err := m.UpdateStudentByID(context.Background(), id.Hex(),
			types.Patch{"lastName": types.StringPtr("X")})

		require.NoError(t, err)
		assert.Equal(t, storage.OutcomeApplied, outcome)
		assert.Equal(t, id.Hex(), student.ID)
		assert.Equal(t, "X", *student.LastName)
		assert.Equal(t, "Ada", *student.FirstName)
	})

	mt.Run("not found", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, outcome, err := m.UpdateStudentByID(context.Background(), primitive.NewObjectID().Hex(),
			types.Patch{"lastName": types.StringPtr("X")})

		require.NoError(t, err)
		assert.Equal(t, storage.OutcomeNotFound, outcome)
	})

	mt.Run("empty patch reads unchanged", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		id := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "portalDB.students", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "firstName", Value: "Ada"},
			{Key: "file", Value: nil},
		}))

		student, outcome, err := m.UpdateStudentByID(context.Background(), id.Hex(), types.Patch{})

		require.NoError(t, err)
		assert.Equal(t, storage.OutcomeApplied, outcome)
		assert.Equal(t, id.Hex(), student.ID)
		assert.Equal(t, "Ada", *student.FirstName)
		assert.Nil(t, student.LastName)
	})

	mt.Run("empty patch unknown id", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "portalDB.students", mtest.FirstBatch))

		_, outcome, err := m.UpdateStudentByID(context.Background(), primitive.NewObjectID().Hex(), types.Patch{})

		require.NoError(t, err)
		assert.Equal(t, storage.OutcomeNotFound, outcome)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)

		_, outcome, err := m.UpdateStudentByID(context.Background(), "not-an-id", types.Patch{})

		require.Error(t, err)
		assert.Equal(t, storage.OutcomeFault, outcome)
		assert.Contains(t, err.Error(), "not-an-id")
	})

	mt.Run("command error", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		_, outcome, err := m.UpdateStudentByID(context.Background(), primitive.NewObjectID().Hex(),
			types.Patch{"lastName": types.StringPtr("X")})

		require.Error(t, err)
		assert.Equal(t, storage.OutcomeFault, outcome)
	})
}

func Test_DeleteAdminByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		outcome, err := m.DeleteAdminByID(context.Background(), primitive.NewObjectID().Hex())

		require.NoError(t, err)
		assert.Equal(t, storage.OutcomeApplied, outcome)
	})

	mt.Run("already gone", func(mt *mtest.T) {
		m := newFromDatabase(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		outcome, err := m.DeleteAdminByID(context.Background(), primitive.NewObjectID().Hex())

		require.NoError(t, err)
		assert.Equal(t, storage.OutcomeNotFound, outcome)
	})
}
