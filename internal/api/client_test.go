package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arun19061/newstatement/internal/report"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHealthOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	assert.NoError(t, c.Health(context.Background()))
}

func TestHealthNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	assert.Error(t, c.Health(context.Background()))
}

func TestProcessMultipartContract(t *testing.T) {
	var gotNames []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/process", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		parts := r.MultipartForm.File["files"]
		for _, p := range parts {
			gotNames = append(gotNames, p.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","summary":{"total_transactions":37,"total_income":1000,"total_expenses":750,"net_income":250},"reports":{"transactions":[],"income_statement":{"breakdown":{}},"balance_sheet":{},"cash_flow":{}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	files := []UploadFile{
		{Name: "jan.csv", Path: writeTempFile(t, "jan.csv", "Date,Amount,Description\n")},
		{Name: "feb.csv", Path: writeTempFile(t, "feb.csv", "Date,Amount,Description\n")},
	}
	payload, err := c.Process(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, []string{"jan.csv", "feb.csv"}, gotNames)
	assert.Equal(t, 37, payload.Summary.TotalTransactions)
	assert.Equal(t, 250.0, payload.Summary.NetIncome)
}

func TestProcessServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unsupported file type"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	files := []UploadFile{{Name: "x.csv", Path: writeTempFile(t, "x.csv", "a,b\n")}}
	_, err := c.Process(context.Background(), files)
	require.Error(t, err)
	serr, ok := err.(*ServerError)
	require.True(t, ok, "expected *ServerError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, serr.Status)
	assert.Equal(t, "unsupported file type", serr.Message)
}

func TestProcessUnstructuredErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	files := []UploadFile{{Name: "x.csv", Path: writeTempFile(t, "x.csv", "a,b\n")}}
	_, err := c.Process(context.Background(), files)
	require.Error(t, err)
	serr, ok := err.(*ServerError)
	require.True(t, ok)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), serr.Message)
}

func TestProcessRejectsEmptyAndOversized(t *testing.T) {
	c := New("http://127.0.0.1:0", zerolog.Nop())
	_, err := c.Process(context.Background(), nil)
	assert.Error(t, err)

	files := make([]UploadFile, MaxUploadFiles+1)
	for i := range files {
		files[i] = UploadFile{Name: "f.csv", Path: "f.csv"}
	}
	_, err = c.Process(context.Background(), files)
	assert.Error(t, err)
}

func TestDownloadReports(t *testing.T) {
	archive := []byte("PK\x03\x04fake-zip-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/download-reports", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/zip")
		w.Write(archive)
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	data, err := c.DownloadReports(context.Background(), report.Reports{})
	require.NoError(t, err)
	assert.Equal(t, archive, data)
}

func TestDownloadReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"no reports data provided"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	_, err := c.DownloadReports(context.Background(), report.Reports{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no reports data provided")
}

func TestArchiveName(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "financial_reports_2026-03-14.zip", ArchiveName(now))
}
