package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/desertthunder/dupx/internal/formatter"
	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/repositories"
	"github.com/desertthunder/dupx/internal/shared"
)

// writeJSON writes v as an indented JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError writes a JSON error payload with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// ReportHandler serves the duplicate report for the local viewer.
//
// The export file is re-read on every request, so a rerun scan shows up on
// the next browser refresh without restarting the server.
type ReportHandler struct {
	path string
}

// NewReportHandler creates a ReportHandler reading the report export at path.
func NewReportHandler(path string) *ReportHandler {
	return &ReportHandler{path: path}
}

// Routes returns the HTTP routes this handler serves.
func (h *ReportHandler) Routes() []string {
	return []string{"/", "/api/report"}
}

// ServeHTTP renders the report as HTML at the root and as JSON under /api/report.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/report":
		report, err := h.load()
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, report)
	case "/":
		report, err := h.load()
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		page, err := formatter.RenderReportHTML(report)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	default:
		// "/" is the mux catch-all; anything else that lands here is unknown.
		http.NotFound(w, r)
	}
}

// load re-reads and decodes the report export.
func (h *ReportHandler) load() (*models.Report, error) {
	return formatter.ReadReport(h.path)
}

// statusFor maps load errors to response codes.
func statusFor(err error) int {
	if errors.Is(err, shared.ErrReportNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// scanPayload is the JSON projection of a scan history row.
type scanPayload struct {
	ID             string    `json:"id"`
	Sequence       int       `json:"sequence"`
	LibraryPath    string    `json:"library_path"`
	TrackCount     int       `json:"track_count"`
	SkippedCount   int       `json:"skipped_count"`
	MetadataGroups int       `json:"metadata_groups"`
	LocationGroups int       `json:"location_groups"`
	DurationMS     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

func newScanPayload(scan *models.ScanRecord) scanPayload {
	return scanPayload{
		ID:             scan.ID(),
		Sequence:       scan.Sequence(),
		LibraryPath:    scan.LibraryPath(),
		TrackCount:     scan.TrackCount(),
		SkippedCount:   scan.SkippedCount(),
		MetadataGroups: scan.MetadataGroups(),
		LocationGroups: scan.LocationGroups(),
		DurationMS:     scan.DurationMS(),
		CreatedAt:      scan.CreatedAt(),
	}
}

// scanDetailPayload extends scanPayload with the stored duplicate groups.
type scanDetailPayload struct {
	scanPayload
	Groups []models.DuplicateGroup `json:"groups"`
}

// historyPageSize caps the /api/scans listing.
const historyPageSize = 50

// HistoryHandler serves recorded scans from the history database.
type HistoryHandler struct {
	scans *repositories.ScanRepository
}

// NewHistoryHandler creates a HistoryHandler backed by the given repository.
func NewHistoryHandler(scans *repositories.ScanRepository) *HistoryHandler {
	return &HistoryHandler{scans: scans}
}

// Routes returns the HTTP routes this handler serves.
func (h *HistoryHandler) Routes() []string {
	return []string{"/api/scans", "/api/scans/{id}"}
}

// ServeHTTP lists recent scans or returns one scan with its groups.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.scans == nil {
		writeError(w, http.StatusServiceUnavailable, "scan history is not available")
		return
	}

	if id := r.PathValue("id"); id != "" {
		h.serveScan(w, id)
		return
	}

	h.serveList(w)
}

func (h *HistoryHandler) serveList(w http.ResponseWriter) {
	scans, err := h.scans.List(map[string]any{"limit": historyPageSize})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// An empty history must serialize as [], not null.
	payloads := []scanPayload{}
	for _, scan := range scans {
		payloads = append(payloads, newScanPayload(scan))
	}

	writeJSON(w, http.StatusOK, payloads)
}

func (h *HistoryHandler) serveScan(w http.ResponseWriter, id string) {
	scan, err := h.scans.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	groups, err := h.scans.GetGroups(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if groups == nil {
		groups = []models.DuplicateGroup{}
	}

	writeJSON(w, http.StatusOK, scanDetailPayload{
		scanPayload: newScanPayload(scan),
		Groups:      groups,
	})
}
