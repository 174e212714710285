package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/squad-tracker/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_MapsSentinels(t *testing.T) {
	tests := []struct {
		err    error
		code   int
		status string
		reason string
	}{
		{fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
		{fmt.Errorf("%w: minutes 0", usecase.ErrOutOfRange), http.StatusBadRequest, "OUT_OF_RANGE", "outOfRange"},
		{fmt.Errorf("%w: missing key", usecase.ErrImportFormat), http.StatusBadRequest, "INVALID_ARGUMENT", "invalidBackup"},
		{fmt.Errorf("%w: player p9", usecase.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "notFound"},
		{usecase.ErrEmptyUndoStack, http.StatusConflict, "FAILED_PRECONDITION", "nothingToUndo"},
		{fmt.Errorf("%w: disk", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL", "internalError"},
	}

	for _, tc := range tests {
		t.Run(tc.status+"/"+tc.reason, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)

			if rec.Code != tc.code {
				t.Fatalf("expected status %d, got %d", tc.code, rec.Code)
			}
			var body googleResponseEnvelope
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response body: %v", err)
			}
			if body.Error == nil || body.Error.Status != tc.status || body.Error.Errors[0].Reason != tc.reason {
				t.Fatalf("unexpected error body %+v", body.Error)
			}
			if body.Error.Errors[0].Domain != errorDomain {
				t.Fatalf("unexpected domain %q", body.Error.Errors[0].Domain)
			}
		})
	}
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("pq: password authentication failed"))

	var body googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error.Message != "internal server error" {
		t.Fatalf("internal error details leaked: %q", body.Error.Message)
	}
}
