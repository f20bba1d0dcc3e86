// Package student contains all HTTP handlers related to the Student resource.
//
// Handlers are built with the closure / factory pattern: each exported
// function receives its dependencies once at startup and returns the
// http.HandlerFunc that runs on every request.
//
//	router.HandleFunc("GET /getStudent", student.GetList(store))
//
// Every failure is answered with 500 and the underlying error text.
// "Not found" on update or delete is not a failure.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/portal-api/internal/intake"
	"github.com/aanand-mishra/portal-api/internal/storage"
	"github.com/aanand-mishra/portal-api/internal/types"
	"github.com/aanand-mishra/portal-api/internal/utils/response"
)

// CreateResponse is the body returned by New.
type CreateResponse struct {
	Message string        `json:"message"`
	Student types.Student `json:"student"`
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /uploadStudent
//
// Request body (multipart/form-data):
//
//	studentID, firstName, lastName, section   text fields, all optional
//	file                                      optional upload
//
// The upload is written first, then the record. If the record write
// fails the upload is removed again; if that removal also fails the file
// is left orphaned and logged. There is no transaction across the two.
//
// Success response (200 OK):
//
//	{ "message": "Student saved with file!", "student": { "_id": "...", ..., "file": null } }
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage, files *intake.Intake) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		values, header, err := intake.ReadForm(r)
		if err != nil {
			slog.Error("error reading form", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		ref, err := files.Save(header)
		if err != nil {
			slog.Error("error saving upload", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		student := types.Student{
			StudentID: intake.Value(values, "studentID"),
			FirstName: intake.Value(values, "firstName"),
			LastName:  intake.Value(values, "lastName"),
			Section:   intake.Value(values, "section"),
			File:      ref,
		}

		created, err := store.CreateStudent(r.Context(), student)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			if discardErr := files.Discard(ref); discardErr != nil {
				slog.Error("orphaned upload", slog.String("file", *ref),
					slog.String("error", discardErr.Error()))
			}
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("student created", slog.String("id", created.ID))
		response.WriteJSON(w, http.StatusOK, CreateResponse{
			Message: "Student saved with file!",
			Student: created,
		})
	}
}

// GetList handles GET /getStudent
// Returns a JSON array of every student; [] when there are none.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := store.GetStudents(r.Context())
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/{id}
// Overwrites only the fields present in the JSON body.
//
//	{ "lastName": "Doe" }
//
// Responds with the updated student, or null when no student has that id.
// Unknown keys are ignored; numbers and booleans are stored as text.
// Uploads are not accepted here.
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		patch, err := decodePatch(r.Body)
		if err != nil {
			slog.Error("error decoding patch",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		updated, outcome, err := store.UpdateStudentByID(r.Context(), id, patch)
		if err != nil {
			slog.Error("error updating student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("student update finished",
			slog.String("id", id),
			slog.String("outcome", outcome.String()))

		if outcome == storage.OutcomeNotFound {
			response.WriteJSON(w, http.StatusOK, nil)
			return
		}

		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /students/{id}
// Always confirms, whether or not a student was actually removed.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		outcome, err := store.DeleteStudentByID(r.Context(), id)
		if err != nil {
			slog.Error("error deleting student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("student delete finished",
			slog.String("id", id),
			slog.String("outcome", outcome.String()))
		response.WriteJSON(w, http.StatusOK, response.Message{Message: "Student deleted successfully"})
	}
}

// decodePatch reads a JSON object from body. An empty body is an empty
// patch.
func decodePatch(body io.Reader) (types.Patch, error) {
	var raw map[string]any

	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return types.NewStudentPatch(raw)
}
