package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/tableview/internal/dataset"
	"github.com/JonMunkholm/tableview/internal/logging"
	"github.com/JonMunkholm/tableview/internal/view"
)

// maxBodySize bounds filter and record bodies.
const maxBodySize = 1 << 20

// viewState is the JSON form of a view.
type viewState struct {
	ID        string                `json:"id"`
	Dataset   string                `json:"dataset"`
	Columns   []view.ColumnSpec     `json:"columns"`
	State     view.Snapshot         `json:"state"`
	Rows      []view.Record         `json:"rows"`
	PageSizes []view.PageSizeOption `json:"page_sizes"`
	Selected  view.Record           `json:"selected,omitempty"`
}

// datasetInfo is the JSON listing entry for a dataset.
type datasetInfo struct {
	Key     string            `json:"key"`
	Label   string            `json:"label"`
	Group   string            `json:"group"`
	Columns []view.ColumnSpec `json:"columns"`
	Records int               `json:"records"`
}

// handleDashboard renders the dataset list.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardPage(dataset.Groups(), dataset.All()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// handleListDatasets returns every registered dataset without its records.
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	all := dataset.All()
	out := make([]datasetInfo, 0, len(all))
	for _, ds := range all {
		out = append(out, datasetInfo{
			Key:     ds.Key,
			Label:   ds.Label,
			Group:   ds.Group,
			Columns: ds.Columns,
			Records: ds.Len(),
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}

// handleCreateView opens a new view over a dataset. An optional page_size
// overrides the configured default.
func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	ds, ok := dataset.Get(key)
	if !ok {
		respondError(w, r, fmt.Errorf("%w: %s", dataset.ErrNotFound, key), http.StatusNotFound)
		return
	}

	opts := s.viewOptions()
	if size, err := strconv.Atoi(r.FormValue("page_size")); err == nil && size > 0 {
		opts.PageSize = size
	}

	sess, err := s.sessions.Create(ds, opts)
	if err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	logging.ForView(r.Context(), sess.ID, ds.Key).Info("view opened", "records", ds.Len())

	location := "/views/" + sess.ID
	switch {
	case wantsJSON(r):
		w.Header().Set("Location", location)
		s.respondView(w, r, sess, http.StatusCreated)
	case isHTMX(r):
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusCreated)
	default:
		http.Redirect(w, r, location, http.StatusSeeOther)
	}
}

func (s *Server) viewOptions() view.Options {
	vc := s.cfg.View
	return view.Options{
		HighlightStyle:   vc.HighlightStyle,
		DisableSelection: vc.DisableSelection,
		DisableSorting:   vc.DisableSorting,
		Paginate:         vc.Paginate,
		PageSize:         vc.PageSize,
		WindowSize:       vc.WindowSize,
		PageSizes:        vc.PageSizes,
	}
}

// handleView renders a view: the partial for htmx, JSON for API clients and
// the full page otherwise.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if isHTMX(r) || wantsJSON(r) {
		s.respondView(w, r, sess, http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess.Do(func(e *view.Engine, hr *HTMLRenderer) error {
		page := viewPage(sess.Label, hr.Table(e.State(), e.HighlightStyle()))
		if err := page.Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render view", "error", err)
		}
		return nil
	})
}

// handleViewState returns the JSON state of a view.
func (s *Server) handleViewState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondView(w, r, sess, http.StatusOK)
}

// handleCloseView drops a view.
func (s *Server) handleCloseView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.sessions.Delete(id)

	switch {
	case wantsJSON(r):
		w.WriteHeader(http.StatusNoContent)
	case isHTMX(r):
		w.Header().Set("HX-Redirect", "/")
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// handleSort sorts by a column given as its index or its field name.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	s.apply(w, r, func(e *view.Engine) error {
		i, err := strconv.Atoi(column)
		if err != nil {
			i = columnIndex(e.Columns(), column)
			if i < 0 {
				return fmt.Errorf("sort %q: %w", column, view.ErrUnknownColumn)
			}
		}
		return e.OnHeaderClick(i)
	})
}

// handleSelect toggles the selection of a row on the current page.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	pos, err := positionParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(e *view.Engine) error {
		e.OnRowClick(pos)
		return nil
	})
}

// handlePage applies a pager action. Form fields: action, and n for page
// and page_size.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	action, err := pageAction(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(e *view.Engine) error {
		e.OnPageControlClick(action)
		return nil
	})
}

// handleFilter narrows the view. Blank values are dropped, so submitting
// an empty form clears filtering.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	filters, err := readRecord(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(e *view.Engine) error {
		return e.FilterData(filters)
	})
}

// handleClearFilter shows every record again.
func (s *Server) handleClearFilter(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(e *view.Engine) error {
		e.ClearFilters()
		return nil
	})
}

// handleAppendRow adds a record from a JSON object or form fields.
func (s *Server) handleAppendRow(w http.ResponseWriter, r *http.Request) {
	rec, err := readRecord(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(e *view.Engine) error {
		e.AppendData(rec)
		return nil
	})
}

// handleUpdateRow patches the record at a position on the current page.
func (s *Server) handleUpdateRow(w http.ResponseWriter, r *http.Request) {
	pos, err := positionParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	patch, err := readRecord(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(e *view.Engine) error {
		e.UpdateData(pos, patch)
		return nil
	})
}

// handleRemoveRow deletes the record at a position on the current page.
func (s *Server) handleRemoveRow(w http.ResponseWriter, r *http.Request) {
	pos, err := positionParam(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.apply(w, r, func(e *view.Engine) error {
		e.RemoveData(pos)
		return nil
	})
}

// handleRemoveAll empties the view's records.
func (s *Server) handleRemoveAll(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(e *view.Engine) error {
		e.RemoveAll()
		return nil
	})
}

// handleExport streams every record of the view, in view order, as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sess.DatasetKey+".csv"))
	sess.Do(func(e *view.Engine, _ *HTMLRenderer) error {
		if err := dataset.WriteCSV(w, e.Columns(), e.Values()); err != nil {
			logging.ForView(r.Context(), sess.ID, sess.DatasetKey).Error("export failed", "error", err)
		}
		return nil
	})
}

// session resolves the {id} parameter, answering 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// apply runs an intent against the session and answers with the redrawn
// view. Engine errors leave the view unchanged.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, fn func(e *view.Engine) error) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	err := sess.Do(func(e *view.Engine, _ *HTMLRenderer) error {
		return fn(e)
	})
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, view.ErrUnknownColumn) {
			status = http.StatusBadRequest
		}
		respondError(w, r, err, status)
		return
	}

	if !isHTMX(r) && !wantsJSON(r) {
		http.Redirect(w, r, "/views/"+sess.ID, http.StatusSeeOther)
		return
	}
	s.respondView(w, r, sess, http.StatusOK)
}

// respondView writes the view as JSON or as the htmx table partial.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request, sess *Session, status int) {
	if wantsJSON(r) {
		var state viewState
		sess.Do(func(e *view.Engine, _ *HTMLRenderer) error {
			state = viewState{
				ID:        sess.ID,
				Dataset:   sess.DatasetKey,
				Columns:   e.Columns(),
				State:     e.State(),
				Rows:      e.PageRows(),
				PageSizes: e.PageSizeOptions(),
			}
			if sel := e.SelectedRowValue(); len(sel) > 0 {
				state.Selected = maps.Clone(sel)
			}
			return nil
		})
		writeJSON(w, r, status, state)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	sess.Do(func(e *view.Engine, hr *HTMLRenderer) error {
		if err := hr.Table(e.State(), e.HighlightStyle()).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render table", "error", err)
		}
		return nil
	})
}

func columnIndex(columns []view.ColumnSpec, field string) int {
	for i, col := range columns {
		if col.Field == field {
			return i
		}
	}
	return -1
}

func positionParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "pos")
	pos, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, raw)
	}
	return pos, nil
}

func pageAction(r *http.Request) (view.PageAction, error) {
	kind := view.PageActionKind(r.FormValue("action"))
	if !kind.Valid() {
		return view.PageAction{}, fmt.Errorf("%w: %q", ErrInvalidPageAction, kind)
	}
	a := view.PageAction{Kind: kind}
	if kind == view.PageNumber || kind == view.PageSizeChange {
		n, err := strconv.Atoi(r.FormValue("n"))
		if err != nil {
			return view.PageAction{}, fmt.Errorf("%w: page %q", ErrInvalidPosition, r.FormValue("n"))
		}
		a.Value = n
	}
	return a, nil
}

// readRecord reads a JSON object or form fields into a record. Blank string
// values are dropped.
func readRecord(w http.ResponseWriter, r *http.Request) (view.Record, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	rec := view.Record{}

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		for k, v := range obj {
			if str, ok := v.(string); ok && strings.TrimSpace(str) == "" {
				continue
			}
			rec[k] = v
		}
		return rec, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	for k, vals := range r.PostForm {
		if len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			continue
		}
		rec[k] = strings.TrimSpace(vals[0])
	}
	return rec, nil
}
