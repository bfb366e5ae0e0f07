package agenda

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"cantinho/common/httputil"
	"cantinho/internal/schedule"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	vm     *ViewModel
	logger *slog.Logger
}

func NewHandler(vm *ViewModel, logger *slog.Logger) *Handler {
	return &Handler{
		vm:     vm,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/agenda", h.GetDay)
	router.Get("/agenda/week", h.GetWeek)
}

type WeekDay struct {
	Date string             `json:"date"`
	Day  schedule.DayOfWeek `json:"day"`
}

type WeekResponse struct {
	Selected string    `json:"selected"`
	Days     []WeekDay `json:"days"`
}

// GetDay loads one day through the shared ViewModel. The server keeps a single
// selected date, so when two callers load different dates at once the older
// request answers 409 and the client should re-request the date it still
// wants to show.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "loading agenda", "date", date.Format(time.DateOnly))
	state, err := h.vm.SelectDate(r.Context(), date)
	switch {
	case errors.Is(err, ErrStale):
		httputil.RespondWithError(w, http.StatusConflict, "Superseded by a newer agenda request")
	case err != nil:
		httputil.RespondWithJSON(w, http.StatusBadGateway, state)
	default:
		httputil.RespondWithJSON(w, http.StatusOK, state)
	}
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	if s := r.URL.Query().Get("shift"); s != "" {
		shift, err := strconv.Atoi(s)
		if err != nil {
			httputil.RespondWithError(w, http.StatusBadRequest, "Invalid shift")
			return
		}
		date = ShiftWeek(date, shift)
	}

	week := WeekOf(date)
	resp := WeekResponse{
		Selected: date.Format(time.DateOnly),
		Days:     make([]WeekDay, 0, len(week)),
	}
	for _, d := range week {
		resp.Days = append(resp.Days, WeekDay{Date: d.Format(time.DateOnly), Day: schedule.DayOf(d)})
	}

	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

// dateParam reads ?date=YYYY-MM-DD, defaulting to today.
func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	s := r.URL.Query().Get("date")
	if s == "" {
		return h.vm.Now(), true
	}
	date, err := time.ParseInLocation(time.DateOnly, s, h.vm.Location())
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}
