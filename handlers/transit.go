package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bluele/gcache"
	"github.com/go-chi/chi/v5"

	"github.com/Holy-Spoon/Subway-System-Planner/internal/metrics"
	"github.com/Holy-Spoon/Subway-System-Planner/internal/static"
	"github.com/Holy-Spoon/Subway-System-Planner/internal/transit"
	"github.com/Holy-Spoon/Subway-System-Planner/models"
)

// SnapshotProvider returns the schedule snapshot to answer queries from
type SnapshotProvider interface {
	Current() *static.Snapshot
}

// TransitHandler handles HTTP requests for stations, lines, connections and trips
type TransitHandler struct {
	store SnapshotProvider
	cache gcache.Cache // nil when caching is disabled
}

// NewTransitHandler creates a new handler. Trip and next-service answers are
// kept in an LRU cache of cacheSize entries; cacheSize <= 0 disables it.
func NewTransitHandler(store SnapshotProvider, cacheSize int) *TransitHandler {
	h := &TransitHandler{store: store}
	if cacheSize > 0 {
		h.cache = gcache.New(cacheSize).LRU().Build()
	}
	return h
}

// StationsResponse is the JSON response for GET /api/stations
type StationsResponse struct {
	Stations []models.Station `json:"stations"`
	Count    int              `json:"count"`
}

// LinesResponse is the JSON response for GET /api/lines and GET /api/stations/{name}/lines
type LinesResponse struct {
	Lines []models.LineSummary `json:"lines"`
	Count int                  `json:"count"`
}

// snapshot returns the current snapshot or writes a 503 when nothing is loaded yet
func (h *TransitHandler) snapshot(w http.ResponseWriter) (*static.Snapshot, bool) {
	snap := h.store.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "Schedule not loaded", nil)
		return nil, false
	}
	return snap, true
}

func (h *TransitHandler) cached(key string) (interface{}, bool) {
	if h.cache == nil {
		return nil, false
	}
	v, err := h.cache.Get(key)
	if err != nil {
		return nil, false
	}
	return v, true
}

func (h *TransitHandler) remember(key string, v interface{}) {
	if h.cache == nil {
		return
	}
	h.cache.Set(key, v)
}

// urlParam returns a decoded path parameter
func urlParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// queryClock parses the "after" query parameter. A missing value means 0000.
func queryClock(r *http.Request) (transit.Clock, error) {
	raw := r.URL.Query().Get("after")
	if raw == "" {
		return 0, nil
	}
	return transit.ParseClock(raw)
}

// ListStations handles GET /api/stations
// Stations are returned in load order, or by name with ?sort=name
func (h *TransitHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	var stations []*transit.Station
	switch sort := r.URL.Query().Get("sort"); sort {
	case "":
		stations = snap.Network.Stations()
	case "name":
		stations = snap.Network.StationsSorted()
	default:
		writeError(w, http.StatusBadRequest, "Invalid sort parameter", map[string]interface{}{
			"sort":    sort,
			"allowed": []string{"name"},
		})
		return
	}

	response := StationsResponse{
		Stations: make([]models.Station, 0, len(stations)),
		Count:    len(stations),
	}
	for _, s := range stations {
		response.Stations = append(response.Stations, models.NewStation(s))
	}
	writeJSON(w, http.StatusOK, response)
}

// GetStation handles GET /api/stations/{name}
func (h *TransitHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	station, err := snap.Network.Station(urlParam(r, "name"))
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewStation(station))
}

// GetStationLines handles GET /api/stations/{name}/lines
func (h *TransitHandler) GetStationLines(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	lines, err := snap.Network.LinesServing(urlParam(r, "name"))
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLinesResponse(lines))
}

// GetNextServices handles GET /api/stations/{name}/next?after=HHMM
// Returns the next departure at the station on every line serving it
func (h *TransitHandler) GetNextServices(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	station := urlParam(r, "name")
	after, err := queryClock(r)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	key := fmt.Sprintf("%s|next|%s|%s", snap.ID, station, after)
	if v, ok := h.cached(key); ok {
		writeJSON(w, http.StatusOK, v)
		return
	}

	departures, err := snap.Network.NextServices(station, after)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	response := models.NextServicesResponse{
		Station:  station,
		After:    after.String(),
		Services: make([]models.NextService, 0, len(departures)),
	}
	for _, d := range departures {
		next := models.NextService{Line: d.Line.Name(), Found: d.Found}
		if d.Found {
			next.TrainID = d.Service.TrainID()
			next.Time = d.Time.String()
		} else {
			metrics.NoResult("next")
			next.Message = fmt.Sprintf("No service on line %s after time %s", d.Line.Name(), after)
		}
		response.Services = append(response.Services, next)
	}

	h.remember(key, response)
	writeJSON(w, http.StatusOK, response)
}

// ListLines handles GET /api/lines
func (h *TransitHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newLinesResponse(snap.Network.Lines()))
}

// GetLine handles GET /api/lines/{name}
// Returns the line with its stops and full timetable
func (h *TransitHandler) GetLine(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	line, err := snap.Network.Line(urlParam(r, "name"))
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewLineDetail(line))
}

// GetLineStations handles GET /api/lines/{name}/stations
// Stations are in direction of travel
func (h *TransitHandler) GetLineStations(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	stations, err := snap.Network.StationsOnLine(urlParam(r, "name"))
	if err != nil {
		writeQueryError(w, err)
		return
	}

	response := StationsResponse{
		Stations: make([]models.Station, 0, len(stations)),
		Count:    len(stations),
	}
	for _, s := range stations {
		response.Stations = append(response.Stations, models.NewStation(s))
	}
	writeJSON(w, http.StatusOK, response)
}

// GetConnection handles GET /api/connections?from=&to=
// Finds a line on which a train goes from one station to the other
func (h *TransitHandler) GetConnection(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "Missing from or to parameter", nil)
		return
	}

	response := models.Connection{From: from, To: to}
	conn, err := snap.Network.SameDirectionLine(from, to)
	switch {
	case err == nil:
		response.Found = true
		response.Line = conn.Line.Name()
		response.DistanceKm = conn.Distance
	case errors.Is(err, transit.ErrNoResult):
		metrics.NoResult("connection")
		response.Message = fmt.Sprintf("No subway line goes from %s to %s in that direction.", from, to)
	default:
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// GetTrip handles GET /api/trips?from=&to=&after=HHMM
// Finds the first train on a single line leaving at or after the given time
func (h *TransitHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "Missing from or to parameter", nil)
		return
	}
	after, err := queryClock(r)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	key := fmt.Sprintf("%s|trip|%s|%s|%s", snap.ID, from, to, after)
	if v, ok := h.cached(key); ok {
		writeJSON(w, http.StatusOK, v)
		return
	}

	response := models.Trip{From: from, To: to, After: after.String()}
	trip, err := snap.Network.FindTrip(from, to, after)
	var noTrip *transit.NoTripError
	switch {
	case err == nil:
		response.Found = true
		response.Line = trip.Line.Name()
		response.TrainID = trip.TrainID
		response.Departure = trip.Departure.String()
		response.Arrival = trip.Arrival.String()
		response.DistanceKm = trip.Distance
	case errors.As(err, &noTrip):
		metrics.NoResult("trip")
		response.Line = noTrip.Line
		response.Message = fmt.Sprintf("No trip available on line %s after time %s", noTrip.Line, after)
	case errors.Is(err, transit.ErrNoResult):
		metrics.NoResult("trip")
		response.Message = fmt.Sprintf("No line connects %s to %s directly in that order.", from, to)
	default:
		writeQueryError(w, err)
		return
	}

	h.remember(key, response)
	writeJSON(w, http.StatusOK, response)
}

func newLinesResponse(lines []*transit.SubwayLine) LinesResponse {
	response := LinesResponse{
		Lines: make([]models.LineSummary, 0, len(lines)),
		Count: len(lines),
	}
	for _, l := range lines {
		response.Lines = append(response.Lines, models.NewLineSummary(l))
	}
	return response
}
