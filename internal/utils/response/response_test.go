package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_GeneralError(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, http.StatusInternalServerError, GeneralError(errors.New("disk full")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"error","error":"disk full"}`, rec.Body.String())
}

func TestWriteJSON_Null(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusOK, nil))

	assert.Equal(t, "null\n", rec.Body.String())
}
