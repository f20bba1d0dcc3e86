// Package admin contains the HTTP handlers for the Admin resource. They
// follow the same factory pattern and error rules as package student.
package admin

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
	Message string      `json:"message"`
	Admin   types.Admin `json:"admin"`
}

// New handles POST /uploadAdmin
//
// Multipart fields: adminID, firstName, lastName, department, and an
// optional file. The upload is discarded again if the record write fails.
func New(store storage.Storage, files *intake.Intake) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating an admin")

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

		admin := types.Admin{
			AdminID:    intake.Value(values, "adminID"),
			FirstName:  intake.Value(values, "firstName"),
			LastName:   intake.Value(values, "lastName"),
			Department: intake.Value(values, "department"),
			File:       ref,
		}

		created, err := store.CreateAdmin(r.Context(), admin)
		if err != nil {
			slog.Error("error creating admin", slog.String("error", err.Error()))
			if discardErr := files.Discard(ref); discardErr != nil {
				slog.Error("orphaned upload", slog.String("file", *ref),
					slog.String("error", discardErr.Error()))
			}
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("admin created", slog.String("id", created.ID))
		response.WriteJSON(w, http.StatusOK, CreateResponse{
			Message: "Admin saved with file!",
			Admin:   created,
		})
	}
}

// GetList handles GET /getAdmin
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all admins")

		admins, err := store.GetAdmins(r.Context())
		if err != nil {
			slog.Error("error getting admins", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, admins)
	}
}

// Update handles PUT /admins/{id}
// Responds with the updated admin, or null when no admin has that id.
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating an admin", slog.String("id", id))

		patch, err := decodePatch(r.Body)
		if err != nil {
			slog.Error("error decoding patch",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		updated, outcome, err := store.UpdateAdminByID(r.Context(), id, patch)
		if err != nil {
			slog.Error("error updating admin",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("admin update finished",
			slog.String("id", id),
			slog.String("outcome", outcome.String()))

		if outcome == storage.OutcomeNotFound {
			response.WriteJSON(w, http.StatusOK, nil)
			return
		}

		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /admins/{id}
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting an admin", slog.String("id", id))

		outcome, err := store.DeleteAdminByID(r.Context(), id)
		if err != nil {
			slog.Error("error deleting admin",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("admin delete finished",
			slog.String("id", id),
			slog.String("outcome", outcome.String()))
		response.WriteJSON(w, http.StatusOK, response.Message{Message: "Admin deleted successfully"})
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

	return types.NewAdminPatch(raw)
}
