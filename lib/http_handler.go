package lib

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snuttools/snutt-proxy/lib/config"
	"github.com/snuttools/snutt-proxy/lib/freerooms"
	"github.com/snuttools/snutt-proxy/lib/lecturecache"
	"github.com/snuttools/snutt-proxy/lib/logging"
	"github.com/snuttools/snutt-proxy/lib/metrics"
	"github.com/snuttools/snutt-proxy/lib/ratelimit"
	"github.com/snuttools/snutt-proxy/lib/schedule"
)

type HttpHandler struct {
	s         *http.Server
	logger    *logrus.Entry
	lectures  *lecturecache.LectureCache
	freeRooms *freerooms.Computer
	limiter   *ratelimit.RateLimiter
	loc       *time.Location
}

func NewHttpHandler(lectures *lecturecache.LectureCache, freeRooms *freerooms.Computer, limiter *ratelimit.RateLimiter) *HttpHandler {
	// All day/time defaults are taken in the catalog's home timezone
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}

	return &HttpHandler{
		logger:    logging.GetLogger("HttpHandler"),
		lectures:  lectures,
		freeRooms: freeRooms,
		limiter:   limiter,
		loc:       loc,
	}
}

func (h *HttpHandler) Start() error {
	cfg := config.Get()
	h.s = &http.Server{
		Addr:           cfg.BindIP + ":" + cfg.Port,
		Handler:        h.CreateMux(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   1 * time.Minute,
		MaxHeaderBytes: 1 << 20,
	}

	h.logger.Info("Starting HTTP Handler on " + cfg.BindIP + ":" + cfg.Port)

	return h.s.ListenAndServe()
}

func (h *HttpHandler) Shutdown(ctx context.Context) error {
	h.logger.Info("Shutting down http handler")
	return h.s.Shutdown(ctx)
}

func (h *HttpHandler) CreateMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", h.SearchHandler)
	mux.HandleFunc("/free-rooms", h.FreeRoomsHandler)
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(200)
	})
	return mux
}

// ClientID identifies the caller for rate limiting: the first segment
// of the forwarded-client-address header, or a local placeholder.
func ClientID(req *http.Request) string {
	forwarded := req.Header.Get("X-Forwarded-For")
	id := strings.TrimSpace(strings.Split(forwarded, ",")[0])
	if id == "" {
		return "local"
	}
	return id
}

func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		metrics.ErrorCounter.Inc()
	}
}

// nowRef returns the current canonical day (Mon=0..Sun=6) and
// minute-of-day in the reference timezone.
func (h *HttpHandler) nowRef() (int, int) {
	now := time.Now().In(h.loc)
	day := (int(now.Weekday()) + 6) % 7
	return day, now.Hour()*60 + now.Minute()
}

type searchParams struct {
	year     int
	semester string
	ok       bool
}

func searchParamsFromQuery(req *http.Request) searchParams {
	q := req.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return searchParams{}
	}
	return searchParams{year: year, semester: q.Get("semester"), ok: true}
}

func searchParamsFromBody(req *http.Request) searchParams {
	var body map[string]any
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return searchParams{}
	}

	var year int
	switch v := body["year"].(type) {
	case float64:
		year = int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return searchParams{}
		}
		year = parsed
	default:
		return searchParams{}
	}

	var sem string
	switch v := body["semester"].(type) {
	case string:
		sem = v
	case float64:
		sem = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return searchParams{year: year, semester: sem, ok: true}
}

func (h *HttpHandler) SearchHandler(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	status := 200
	defer func() {
		metrics.ObserveRequestHistogram("/search", strconv.Itoa(status), req.Method, time.Since(start).Seconds())
	}()

	if !h.limiter.Allow(ClientID(req)) {
		status = 429
		jsonError(w, "Too Many Requests", status)
		return
	}

	cfg := config.Get()
	if cfg.APIKey == "" {
		status = 500
		jsonError(w, "SNUTT_API_KEY missing", status)
		return
	}
	if cfg.AccessToken == "" {
		status = 500
		jsonError(w, "SNUTT_ACCESS_TOKEN missing", status)
		return
	}

	var params searchParams
	switch req.Method {
	case http.MethodGet:
		params = searchParamsFromQuery(req)
	case http.MethodPost:
		params = searchParamsFromBody(req)
	default:
		status = 405
		jsonError(w, "method not allowed", status)
		return
	}

	if !params.ok || strings.TrimSpace(params.semester) == "" {
		status = 400
		jsonError(w, "year/semester required", status)
		return
	}

	data, provenance, err := h.lectures.Get(params.year, params.semester)
	if err != nil {
		h.logger.WithFields(logrus.Fields{"year": params.year, "semester": params.semester}).Error(err)
		status = 502
		jsonError(w, "upstream error", status)
		return
	}

	w.Header().Set("x-cache", string(provenance))
	w.Header().Set("Cache-Control", "public, max-age=0, s-maxage=1800, stale-while-revalidate=86400")
	writeJSON(w, 200, data)
}

func (h *HttpHandler) FreeRoomsHandler(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	status := 200
	defer func() {
		metrics.ObserveRequestHistogram("/free-rooms", strconv.Itoa(status), req.Method, time.Since(start).Seconds())
	}()

	if !h.limiter.Allow(ClientID(req)) {
		status = 429
		jsonError(w, "Too Many Requests", status)
		return
	}

	q := req.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	semester := q.Get("semester")
	if err != nil || strings.TrimSpace(semester) == "" {
		status = 400
		jsonError(w, "year/semester required", status)
		return
	}

	building := strings.TrimSpace(q.Get("building"))
	if building == "" {
		status = 400
		jsonError(w, "building required", status)
		return
	}

	day, minute := h.nowRef()
	if dayParam := q.Get("day"); dayParam != "" {
		parsed, err := strconv.Atoi(dayParam)
		if err != nil {
			status = 400
			jsonError(w, "invalid day", status)
			return
		}
		day = min(6, max(0, parsed))
	}
	if atParam := q.Get("at"); atParam != "" {
		if parsed, ok := schedule.ParseHHMM(atParam); ok {
			minute = parsed
		}
	}

	cfg := config.Get()
	if cfg.APIKey == "" {
		status = 500
		jsonError(w, "SNUTT_API_KEY missing", status)
		return
	}
	if cfg.AccessToken == "" {
		status = 500
		jsonError(w, "SNUTT_ACCESS_TOKEN missing", status)
		return
	}

	data, cached, err := h.freeRooms.FreeRooms(year, semester, building, day, minute)
	if err != nil {
		h.logger.WithFields(logrus.Fields{"year": year, "semester": semester, "building": building}).Error(err)
		status = 502
		jsonError(w, "upstream error", status)
		return
	}

	provenance := "MISS"
	if cached {
		provenance = "HIT"
	}
	w.Header().Set("x-cache", provenance)
	w.Header().Set("Cache-Control", "public, max-age=30, s-maxage=60")
	writeJSON(w, 200, data)
}
