package httpadapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/couchcryptid/zhvi-dashboard/internal/domain"
	"github.com/couchcryptid/zhvi-dashboard/internal/pipeline"
	"github.com/couchcryptid/zhvi-dashboard/internal/render"
	"github.com/couchcryptid/zhvi-dashboard/internal/session"
)

// maxPatchBytes bounds a selection patch body.
const maxPatchBytes = 64 << 10

// API serves the dashboard's JSON, image and table endpoints.
type API struct {
	dashboard *pipeline.Dashboard
	sessions  *session.Store
	staticMap domain.StaticMapper // nil when Mapbox is disabled
	logger    *slog.Logger
}

// NewAPI creates the API. staticMap may be nil.
func NewAPI(dashboard *pipeline.Dashboard, sessions *session.Store, staticMap domain.StaticMapper, logger *slog.Logger) *API {
	return &API{
		dashboard: dashboard,
		sessions:  sessions,
		staticMap: staticMap,
		logger:    logger,
	}
}

// Register adds the /api/v1 routes to mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/states", a.handleStates)
	mux.HandleFunc("GET /api/v1/states/{state}/metros", a.handleMetros)

	mux.HandleFunc("POST /api/v1/sessions", a.handleCreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", a.handleGetSession)
	mux.HandleFunc("PATCH /api/v1/sessions/{id}", a.handlePatchSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", a.handleDeleteSession)

	mux.HandleFunc("GET /api/v1/sessions/{id}/view", a.handleView)
	mux.HandleFunc("GET /api/v1/sessions/{id}/map.geojson", a.handleGeoJSON)
	mux.HandleFunc("GET /api/v1/sessions/{id}/map.png", a.handleStaticMap)
	mux.HandleFunc("GET /api/v1/sessions/{id}/chart.png", a.handleChart(render.ChartPNG))
	mux.HandleFunc("GET /api/v1/sessions/{id}/chart.svg", a.handleChart(render.ChartSVG))
	mux.HandleFunc("GET /api/v1/sessions/{id}/tables/snapshot", a.handleSnapshotTable)
	mux.HandleFunc("GET /api/v1/sessions/{id}/tables/series", a.handleSeriesTable)
}

func (a *API) handleStates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"states": domain.States(a.dashboard.Table())})
}

func (a *API) handleMetros(w http.ResponseWriter, r *http.Request) {
	state := r.PathValue("state")
	t := a.dashboard.Table()
	if !slices.Contains(domain.States(t), state) {
		writeError(w, r, a.logger, fmt.Errorf("%w %q", errUnknownState, state))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":  state,
		"metros": domain.Metros(t, state),
	})
}

func (a *API) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := a.sessions.Create()
	sel, cand := sess.Selection()
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Selection: sel, Candidates: cand})
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := a.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	sel, cand := sess.Selection()
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, Selection: sel, Candidates: cand})
}

// handlePatchSession applies the patch atomically: a rejected field leaves
// the whole selection unchanged.
func (a *API) handlePatchSession(w http.ResponseWriter, r *http.Request) {
	sess, err := a.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}

	var patch patchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPatchBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeError(w, r, a.logger, fmt.Errorf("%w: decode selection patch: %w", errBadRequest, err))
		return
	}

	err = sess.Do(func(sel *domain.Selector) error {
		next := sel.Clone()
		if err := patch.apply(next); err != nil {
			return err
		}
		*sel = *next
		return nil
	})
	if err != nil {
		a.logger.Debug("selection rejected", "session_id", sess.ID, "error", err)
		writeError(w, r, a.logger, err)
		return
	}

	sel, cand := sess.Selection()
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, Selection: sel, Candidates: cand})
}

func (a *API) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Delete(r.PathValue("id")); err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleView(w http.ResponseWriter, r *http.Request) {
	sess, sel, ok := a.selection(w, r)
	if !ok {
		return
	}
	v, err := a.dashboard.View(r.Context(), sess.ID, sel)
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, newViewResponse(sess.ID, v, queryFlag(q.Get("show_data")), queryFlag(q.Get("show_series_data"))))
}

func (a *API) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	_, sel, ok := a.selection(w, r)
	if !ok {
		return
	}
	snap, err := a.dashboard.Snapshot(sel)
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	data, err := render.MarshalFeatureCollection(snap)
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

func (a *API) handleStaticMap(w http.ResponseWriter, r *http.Request) {
	if a.staticMap == nil {
		writeError(w, r, a.logger, errStaticMapOff)
		return
	}
	_, sel, ok := a.selection(w, r)
	if !ok {
		return
	}
	snap, err := a.dashboard.Snapshot(sel)
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	sum, err := snap.Summary()
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}

	img, err := a.staticMap.StaticMap(r.Context(), render.StaticMapRequest(snap, sum, a.dashboard.MapStyle()))
	if err != nil {
		writeError(w, r, a.logger, fmt.Errorf("%w: %w", errUpstream, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(img)
}

func (a *API) handleChart(format render.ChartFormat) http.HandlerFunc {
	contentType := "image/png"
	if format == render.ChartSVG {
		contentType = "image/svg+xml"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		_, sel, ok := a.selection(w, r)
		if !ok {
			return
		}
		st, _ := a.dashboard.Series(sel)

		var buf bytes.Buffer
		if err := render.RenderSeriesChart(&buf, st, format); err != nil {
			writeError(w, r, a.logger, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(buf.Bytes())
	}
}

func (a *API) handleSnapshotTable(w http.ResponseWriter, r *http.Request) {
	format, ok := a.tableFormat(w, r)
	if !ok {
		return
	}
	_, sel, ok := a.selection(w, r)
	if !ok {
		return
	}
	snap, err := a.dashboard.Snapshot(sel)
	if err == nil && snap.Empty() {
		_, err = snap.Summary()
	}
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeTable(w, format, render.SnapshotTable(snap, format))
}

func (a *API) handleSeriesTable(w http.ResponseWriter, r *http.Request) {
	format, ok := a.tableFormat(w, r)
	if !ok {
		return
	}
	_, sel, ok := a.selection(w, r)
	if !ok {
		return
	}
	st, _ := a.dashboard.Series(sel)
	if st.Empty() {
		writeError(w, r, a.logger, &domain.NoDataError{View: "series", State: sel.State, Metro: sel.Metro})
		return
	}
	writeTable(w, format, render.SeriesTableView(st, format))
}

// selection resolves the session in the path and copies its selection.
// It writes the error response itself and reports false on failure.
func (a *API) selection(w http.ResponseWriter, r *http.Request) (*session.Session, domain.Selection, bool) {
	sess, err := a.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, a.logger, err)
		return nil, domain.Selection{}, false
	}
	sel, _ := sess.Selection()
	return sess, sel, true
}

func (a *API) tableFormat(w http.ResponseWriter, r *http.Request) (render.TableFormat, bool) {
	format, err := render.ParseTableFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, a.logger, fmt.Errorf("%w: %w", errBadRequest, err))
		return "", false
	}
	return format, true
}

func writeTable(w http.ResponseWriter, format render.TableFormat, body string) {
	w.Header().Set("Content-Type", format.ContentType())
	_, _ = w.Write([]byte(body))
}

func queryFlag(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
