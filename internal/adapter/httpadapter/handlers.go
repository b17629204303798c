package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/smart-city-service/internal/domain"
	"github.com/couchcryptid/smart-city-service/internal/service"
)

const (
	msgCityNotFound   = "Could not determine city. Please provide a valid city name or coordinates."
	msgMissingLoc     = "City name or coordinates required"
	msgInvalidModule  = "Invalid module"
	msgInternal       = "internal server error"
	maxPredictPayload = 1 << 16
)

type handlers struct {
	svc    CityService
	logger *slog.Logger
}

type errorBody struct {
	Error string `json:"error"`
}

type predictResponse struct {
	Success    bool   `json:"success"`
	Prediction any    `json:"prediction,omitempty"`
	Inputs     any    `json:"inputs,omitempty"`
	Error      string `json:"error,omitempty"`
}

// predict evaluates one formula. Bad input is reported as success=false
// with status 200; only an unknown module is a 400.
func (h *handlers) predict(w http.ResponseWriter, r *http.Request) {
	var fields domain.Fields
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictPayload)).Decode(&fields); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, predictResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	module, _ := fields["module"].(string)

	result, err := h.svc.Predict(module, fields)
	var inputErr *domain.InputError
	switch {
	case err == nil:
		sharedobs.WriteJSON(w, http.StatusOK, predictResponse{Success: true, Prediction: result.Prediction, Inputs: result.Inputs})
	case errors.Is(err, domain.ErrUnknownModule):
		sharedobs.WriteJSON(w, http.StatusBadRequest, predictResponse{Error: msgInvalidModule})
	case errors.As(err, &inputErr):
		sharedobs.WriteJSON(w, http.StatusOK, predictResponse{Error: inputErr.Error()})
	default:
		h.internalError(w, r, err)
	}
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func (h *handlers) fetchData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data, err := h.svc.FetchData(r.Context(), q.Get("module"), locationQuery(q))
	switch {
	case err == nil:
		sharedobs.WriteJSON(w, http.StatusOK, dataResponse{Success: true, Data: data})
	case errors.Is(err, domain.ErrMissingLocation):
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Error: msgMissingLoc})
	case errors.Is(err, domain.ErrUnknownModule):
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Error: msgInvalidModule})
	default:
		h.internalError(w, r, err)
	}
}

func (h *handlers) cityScore(w http.ResponseWriter, r *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, h.svc.CityScore(r.Context(), r.URL.Query().Get("city")))
}

func (h *handlers) heatmap(w http.ResponseWriter, r *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, h.svc.Heatmap(r.Context(), locationQuery(r.URL.Query())))
}

func (h *handlers) predictCity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	useAPI := strings.EqualFold(valueOr(q.Get("use_api"), "true"), "true")

	prediction, err := h.svc.PredictCity(r.Context(), locationQuery(q), useAPI)
	switch {
	case err == nil:
		sharedobs.WriteJSON(w, http.StatusOK, prediction)
	case errors.Is(err, domain.ErrCityNotFound):
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Error: msgCityNotFound})
	default:
		h.internalError(w, r, err)
	}
}

type alertsResponse struct {
	Alerts []domain.Alert `json:"alerts"`
}

func (h *handlers) alerts(w http.ResponseWriter, r *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, alertsResponse{Alerts: h.svc.Alerts(r.URL.Query().Get("city"))})
}

type citiesResponse struct {
	Cities []domain.City `json:"cities"`
}

func (h *handlers) cities(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, citiesResponse{Cities: h.svc.Cities()})
}

func (h *handlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed", "path", r.URL.Path, "error", err)
	sharedobs.WriteJSON(w, http.StatusInternalServerError, errorBody{Error: msgInternal})
}

// locationQuery reads city, lat and lon. Coordinates count only when both
// parse as numbers.
func locationQuery(q url.Values) service.LocationQuery {
	lq := service.LocationQuery{City: strings.TrimSpace(q.Get("city"))}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(q.Get("lat")), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(q.Get("lon")), 64)
	if latErr == nil && lonErr == nil {
		lq.Coords = &domain.Geo{Lat: lat, Lon: lon}
	}
	return lq
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
