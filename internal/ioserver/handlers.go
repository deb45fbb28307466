package ioserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/gncat/pkg/blob"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/errcode"
	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/store"
	"github.com/gnames/gncat/pkg/summary"
	"github.com/gnames/gncat/pkg/tabular"
	"github.com/gnames/gnfmt"
)

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ModeBody is the body of mode requests and responses.
type ModeBody struct {
	Mode config.StorageMode `json:"mode"`
}

// SyncResponse describes the remote sync status.
type SyncResponse struct {
	Mode config.StorageMode `json:"mode"`
	Last store.SyncEvent    `json:"last"`
}

var listParams = map[string]struct{}{
	"q": {}, "field": {}, "page": {}, "per_page": {},
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := store.Criteria{
		Term:    q.Get("q"),
		Field:   q.Get("field"),
		Filters: make(map[string]string),
	}
	for k, v := range q {
		if _, ok := listParams[k]; ok || len(v) == 0 {
			continue
		}
		c.Filters[k] = v[0]
	}

	page := intParam(q.Get("page"), 1)
	perPage := intParam(q.Get("per_page"), s.pageSize)
	writeJSON(w, http.StatusOK, store.Paginate(s.store.Search(c), page, perPage))
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	if err := s.store.Add(r.Context(), rec); err != nil && !errors.Is(err, store.ErrPersist) {
		writeError(w, err)
		return
	}
	res, _ := s.store.GetByCatalog(rec.CatalogKey())
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("catalog")
	rec, ok := s.store.GetByCatalog(id)
	if !ok {
		writeError(w, store.NotFoundError(id))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("catalog")
	partial, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	err := s.store.Update(r.Context(), id, partial)
	if err != nil && !errors.Is(err, store.ErrPersist) {
		writeError(w, err)
		return
	}
	if partial.Has(record.Catalog) {
		id = partial.CatalogKey()
	}
	rec, _ := s.store.GetByCatalog(id)
	writeJSON(w, http.StatusOK, rec)
}

// handleUpdateMany applies a batch of partial updates keyed by catalog
// number, as sent by the incomplete-records editor.
func (s *Server) handleUpdateMany(w http.ResponseWriter, r *http.Request) {
	var body map[string]record.Record
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpload))
	if err == nil {
		err = json.Unmarshal(data, &body)
	}
	if err != nil || len(body) == 0 {
		writeJSONError(w, http.StatusBadRequest, "parse_error",
			"Body must map catalog numbers to record fields")
		return
	}

	err = s.store.UpdateMany(r.Context(), body)
	if err != nil && !persistOnly(err) {
		writeError(w, err)
		return
	}

	ids := make([]string, 0, len(body))
	for id, partial := range body {
		if partial.Has(record.Catalog) {
			id = partial.CatalogKey()
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	res := make([]record.Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.store.GetByCatalog(id); ok {
			res = append(res, rec)
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	n := intParam(r.URL.Query().Get("n"), s.pageSize)
	writeJSON(w, http.StatusOK, s.store.Recent(n))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), r.PathValue("catalog"))
	if err != nil && !errors.Is(err, store.ErrPersist) {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIncomplete(w http.ResponseWriter, r *http.Request) {
	recs := s.store.GetIncompleteRecords()
	if g := strings.TrimSpace(r.URL.Query().Get("group")); g != "" {
		filtered := make([]record.Record, 0, len(recs))
		for _, rec := range recs {
			if strings.EqualFold(s.groups.GroupOf(rec.Get(record.Order).String()), g) {
				filtered = append(filtered, rec)
			}
		}
		recs = filtered
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.GetSummaryStats())
}

func (s *Server) handleValues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.GetUniqueValues(r.PathValue("field")))
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	top := intParam(r.URL.Query().Get("top"), s.topN)
	d, err := s.store.Dashboard(r.Context(), s.groups, summary.OptTopN(top))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	mode := store.ImportReplace
	if m := r.URL.Query().Get("mode"); m != "" {
		var err error
		if mode, err = store.ParseImportMode(m); err != nil {
			writeError(w, err)
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "parse_error",
			"Failed to parse multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "file_required",
			"File field is required")
		return
	}
	defer file.Close()

	format, err := tabular.FormatFromName(header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := tabular.Decode(file, format)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.store.ImportFrom(r.Context(), rows, mode)
	if err != nil && !errors.Is(err, store.ErrPersist) {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := tabular.XLSX
	if f := r.URL.Query().Get("format"); f != "" {
		var err error
		if format, err = tabular.ParseFormat(f); err != nil {
			writeError(w, err)
			return
		}
	}
	data, err := s.store.ExportSnapshot(format)
	if err != nil {
		writeError(w, err)
		return
	}

	name := tabular.ExportFileName(format, time.Now())
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleGetMode(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ModeBody{Mode: s.store.GetStorageMode()})
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var body ModeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "parse_error",
			"Body must be {\"mode\": \"local|remote\"}")
		return
	}
	if err := s.store.SetStorageMode(body.Mode); err != nil {
		writeError(w, err)
		return
	}
	if s.saveMode != nil {
		if err := s.saveMode(body.Mode); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSync(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SyncResponse{
		Mode: s.store.GetStorageMode(),
		Last: s.store.LastSync(),
	})
}

func (s *Server) handleSyncOp(w http.ResponseWriter, r *http.Request) {
	var err error
	switch r.PathValue("op") {
	case store.OpPush:
		err = s.store.PushRemote(r.Context())
	case store.OpPull:
		err = s.store.PullRemote(r.Context())
	default:
		writeJSONError(w, http.StatusNotFound, "not_found",
			"Use /api/sync/push or /api/sync/pull")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.handleSync(w, r)
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (record.Record, bool) {
	var res record.Record
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpload))
	if err == nil {
		err = res.UnmarshalJSON(data)
	}
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "parse_error",
			"Body must be a flat JSON object of record fields")
		return res, false
	}
	return res, true
}

// persistOnly reports whether a batch error holds nothing but local
// persistence failures.
func persistOnly(err error) bool {
	return errors.Is(err, store.ErrPersist) &&
		!errors.Is(err, store.ErrNotFound) &&
		!errors.Is(err, store.ErrDuplicate) &&
		!errors.Is(err, store.ErrMissingCatalog)
}

func intParam(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func contentType(f tabular.Format) string {
	if f == tabular.CSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	enc := gnfmt.GNjson{}
	res, err := enc.Encode(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeError maps store and codec errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, store.ErrDuplicate):
		status, code = http.StatusConflict, "duplicate"
	case errors.Is(err, store.ErrMissingCatalog):
		status, code = http.StatusBadRequest, "missing_catalog"
	case errors.Is(err, blob.ErrConflict):
		status, code = http.StatusConflict, "remote_conflict"
	case errors.Is(err, blob.ErrNotInitialized):
		status, code = http.StatusServiceUnavailable, "remote_unavailable"
	case errors.Is(err, tabular.ErrFormat):
		status, code = http.StatusBadRequest, "unsupported_format"
	default:
		if gnErr, ok := errcode.GNError(err); ok {
			switch gnErr.Code {
			case errcode.ImportModeError, errcode.StoreModeError,
				errcode.ImportReadError:
				status, code = http.StatusBadRequest, "bad_request"
			case errcode.RemoteConfigError:
				status, code = http.StatusServiceUnavailable, "remote_not_configured"
			case errcode.RemoteMissingError:
				status, code = http.StatusNotFound, "remote_missing"
			}
		}
	}
	writeJSONError(w, status, code, message(err))
}

// message renders the user-facing text of an error.
func message(err error) string {
	gnErr, ok := errcode.GNError(err)
	if !ok {
		return err.Error()
	}
	res := fmt.Sprintf(gnErr.Msg, gnErr.Vars...)
	return strings.NewReplacer("<em>", "", "</em>", "").Replace(res)
}
