package stubserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/arun19061/newstatement/internal/report"
)

// maxUploadBytes bounds a single /process request body.
const maxUploadBytes = 32 << 20

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server is the local statement processing service.
type Server struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

func New(logger zerolog.Logger, cfg Config) *Server {
	s := &Server{logger: &logger}

	router := chi.NewRouter()
	router.Use(requestLogger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/health", s.handleHealth)
	router.Post("/process", s.handleProcess)
	router.Post("/download-reports", s.handleDownloadReports)

	s.router = router
	s.server = &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}
	return s
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until a terminating signal arrives, then drains in-flight
// requests before returning.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("starting statement service")
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		s.logger.Info().Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.server.Shutdown(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = s.server.Close()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr).
				Logger()

			ctx := reqLogger.WithContext(req.Context())
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "statement service is running",
	})
}

// handleProcess parses every uploaded file, reporting a per-file status, and
// returns the aggregated reports. The request fails only when no file yields
// a single transaction.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}

	var all []report.Transaction
	statuses := make([]report.FileStatus, 0, len(uploads))
	for _, header := range uploads {
		f, err := header.Open()
		if err != nil {
			statuses = append(statuses, report.FileStatus{Filename: header.Filename, Status: "error", Error: err.Error()})
			continue
		}
		txns, err := ParseFile(header.Filename, f)
		f.Close()
		if err != nil {
			logger.Warn().Str("file", header.Filename).Err(err).Msg("file rejected")
			statuses = append(statuses, report.FileStatus{Filename: header.Filename, Status: "error", Error: err.Error()})
			continue
		}
		all = append(all, txns...)
		statuses = append(statuses, report.FileStatus{Filename: header.Filename, Status: "success", TransactionsCount: len(txns)})
	}

	if len(all) == 0 {
		writeError(w, http.StatusBadRequest, "no valid transactions found in any file")
		return
	}

	reports := GenerateReports(all)
	logger.Info().Int("files", len(uploads)).Int("transactions", len(all)).Msg("statements processed")
	writeJSON(w, http.StatusOK, report.Payload{
		Status:         "success",
		ProcessedFiles: statuses,
		Summary: report.Summary{
			TotalTransactions: len(all),
			TotalIncome:       reports.IncomeStatement.TotalIncome,
			TotalExpenses:     reports.IncomeStatement.TotalExpenses,
			NetIncome:         reports.IncomeStatement.NetIncome,
		},
		Reports: reports,
	})
}

func (s *Server) handleDownloadReports(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var body struct {
		Reports *report.Reports `json:"reports"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Reports == nil {
		writeError(w, http.StatusBadRequest, "no reports data provided")
		return
	}

	archive, err := BuildArchive(*body.Reports, time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("archive build failed")
		writeError(w, http.StatusInternalServerError, "failed to build report archive")
		return
	}

	name := fmt.Sprintf("financial_reports_%s.zip", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(archive)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
