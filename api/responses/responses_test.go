package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/promonitor/storefront/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body SuccessEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "world", body.Data.(map[string]any)["hello"])
}

func TestWriteErrorExposesValidationMessage(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "Fyll inn alle feltene i kassen.").
		WithDetails(map[string]string{"field": "email"})
	WriteError(context.Background(), nil, w, err)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, string(pkgerrors.CodeValidation), body.Error.Code)
	require.Equal(t, "Fyll inn alle feltene i kassen.", body.Error.Message)
	require.NotNil(t, body.Error.Details)
}

func TestWriteErrorDefaultsToInternalForUntypedErrors(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	w := httptest.NewRecorder()
	WriteError(context.Background(), logg, w, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, string(pkgerrors.CodeInternal), body.Error.Code)
	require.Equal(t, "internal server error", body.Error.Message)
	require.Nil(t, body.Error.Details)
	require.Contains(t, buf.String(), "request.error")
}

func TestWriteErrorHidesDependencyMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("disk I/O"), "db: list products"))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "dependency unavailable", body.Error.Message)
}
