// Package api implements the HTTP client for the statement processing
// service. It covers the three endpoints the dashboard consumes: the liveness
// probe, multipart statement submission, and report archive download.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arun19061/newstatement/internal/report"
)

// MaxUploadFiles is the most files a single submission may carry. Extra
// entries are the caller's bug; Process rejects rather than truncates.
const MaxUploadFiles = 5

// ServerError is a non-2xx response that carried a structured error body.
// Its message is surfaced to the user verbatim.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
}

// UploadFile names one local statement file to submit.
type UploadFile struct {
	Name string
	Path string
}

// Client talks to one service instance. All methods honor the passed context
// for cancellation and deadlines; the client itself imposes no timeout.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

func New(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{},
		log:     log,
	}
}

// Health probes GET /health. Any non-200 status or transport failure is
// returned as an error; callers treat it as a warning, not a fatal state.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Process submits the files as one multipart POST /process request and
// decodes the report payload. The multipart field name is "files" for every
// part, matching the service contract.
func (c *Client) Process(ctx context.Context, files []UploadFile) (*report.Payload, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to process")
	}
	if len(files) > MaxUploadFiles {
		return nil, fmt.Errorf("too many files: %d exceeds the limit of %d", len(files), MaxUploadFiles)
	}

	requestID := uuid.NewString()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("create form part %q: %w", f.Name, err)
		}
		src, err := os.Open(f.Path)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", f.Name, err)
		}
		_, err = io.Copy(part, src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process", body)
	if err != nil {
		return nil, fmt.Errorf("build process request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.log.Info().Str("request_id", requestID).Int("files", len(files)).Msg("submitting statements")
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error().Str("request_id", requestID).Err(err).Msg("process request failed")
		return nil, fmt.Errorf("process request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		serr := decodeServerError(resp)
		c.log.Warn().Str("request_id", requestID).Int("status", serr.Status).Str("message", serr.Message).Msg("process rejected")
		return nil, serr
	}

	var payload report.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode process response: %w", err)
	}
	c.log.Info().Str("request_id", requestID).
		Int("transactions", payload.Summary.TotalTransactions).
		Msg("statements processed")
	return &payload, nil
}

// DownloadReports posts the current reports back to the service and returns
// the archive bytes.
func (c *Client) DownloadReports(ctx context.Context, reports report.Reports) ([]byte, error) {
	body, err := json.Marshal(map[string]report.Reports{"reports": reports})
	if err != nil {
		return nil, fmt.Errorf("encode reports: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/download-reports", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeServerError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return data, nil
}

// decodeServerError extracts {"error": "..."} from a non-2xx body, falling
// back to the HTTP status text when the body is not structured.
func decodeServerError(resp *http.Response) *ServerError {
	serr := &ServerError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		serr.Message = body.Error
	}
	return serr
}

// ArchiveName returns the client-side file name for a downloaded archive,
// stamped with the given date.
func ArchiveName(now time.Time) string {
	return fmt.Sprintf("financial_reports_%s.zip", now.Format("2006-01-02"))
}
