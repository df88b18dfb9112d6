package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/auth"
	"github.com/ariefcatur/go-restaurant-pos.git/internal/shifts"
	"github.com/go-chi/chi/v5"
)

type ShiftsHandler struct {
	Shifts *shifts.Repo
}

type shiftStartReq struct {
	OpeningCash float64 `json:"opening_cash"`
}

type shiftEndReq struct {
	ClosingCash float64 `json:"closing_cash"`
	Notes       string  `json:"notes"`
}

func (h *ShiftsHandler) Register(r *chi.Mux, mw *AuthMiddleware) {
	r.Route("/shifts", func(r chi.Router) {
		r.Use(mw.RequireUser)
		r.Post("/start", h.start)
		r.Post("/{id}/end", h.end)
		r.Get("/active", h.active)
		r.Get("/history", h.history)
	})
}

func (h *ShiftsHandler) start(w http.ResponseWriter, r *http.Request) {
	var req shiftStartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	u := UserFrom(r.Context())
	s, err := h.Shifts.Start(r.Context(), u.ID, req.OpeningCash)
	if err != nil {
		if errors.Is(err, shifts.ErrActiveShift) {
			writeError(w, http.StatusBadRequest, "you already have an active shift")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *ShiftsHandler) end(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req shiftEndReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	u := UserFrom(r.Context())
	existing, err := h.Shifts.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "shift not found")
		return
	}
	if existing.UserID != u.ID && u.Role != auth.RoleAdmin {
		writeError(w, http.StatusForbidden, "not authorized to close this shift")
		return
	}

	s, err := h.Shifts.End(r.Context(), id, req.ClosingCash, req.Notes)
	if err != nil {
		if errors.Is(err, shifts.ErrAlreadyClosed) {
			writeError(w, http.StatusBadRequest, "shift is already closed")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ShiftsHandler) active(w http.ResponseWriter, r *http.Request) {
	u := UserFrom(r.Context())
	s, err := h.Shifts.Active(r.Context(), u.ID)
	if err != nil {
		if errors.Is(err, shifts.ErrNotFound) {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ShiftsHandler) history(w http.ResponseWriter, r *http.Request) {
	u := UserFrom(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.Shifts.History(r.Context(), u.ID, u.Role == auth.RoleAdmin, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []shifts.Shift{}
	}
	writeJSON(w, http.StatusOK, list)
}
