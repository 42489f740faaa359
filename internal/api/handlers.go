package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mesh-intelligence/moodlog/internal/journal"
	"github.com/mesh-intelligence/moodlog/internal/render"
	"github.com/mesh-intelligence/moodlog/internal/stats"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.clock.Now().Format(time.RFC3339),
	})
}

func (s *Server) listFeelings(w http.ResponseWriter, r *http.Request) {
	cat, err := s.catalog.List()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]types.Catalog{"sentimentos": cat})
}

func (s *Server) getAll(w http.ResponseWriter, r *http.Request) {
	store, err := s.journal.GetAll()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]types.Store{"registro": store})
}

// getDay answers with the record's own fields plus "data".
func (s *Server) getDay(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("data")
	rec, err := s.journal.GetDay(date)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		writeErr(w, r, err)
		return
	}
	dateJSON, _ := json.Marshal(date)
	fields["data"] = dateJSON
	writeJSON(w, http.StatusOK, fields)
}

// addEntryRequest is the POST /api/registro body. Only sentimento is
// required.
type addEntryRequest struct {
	Feeling   string  `json:"sentimento"`
	Note      *string `json:"nota"`
	Date      *string `json:"data"`
	TimeOfDay *string `json:"horario"`
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	added, err := s.journal.AddEntry(journal.AddEntryInput{
		Date:      deref(req.Date),
		TimeOfDay: deref(req.TimeOfDay),
		Feeling:   req.Feeling,
		Note:      deref(req.Note),
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("data")
	timeOfDay := r.URL.Query().Get("horario")

	if _, err := s.journal.DeleteEntry(date, timeOfDay); err != nil {
		writeErr(w, r, err)
		return
	}

	msg := "Registro de " + date
	if timeOfDay != "" {
		msg += " às " + timeOfDay
	}
	msg += " removido com sucesso"
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (s *Server) feelingCounts(w http.ResponseWriter, r *http.Request) {
	store, cat, err := s.snapshot()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	sum, err := stats.FeelingCounts(store, cat)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

type yearResponse struct {
	Year      int         `json:"ano"`
	TotalDays int         `json:"total_dias"`
	Records   types.Store `json:"registro"`
}

func (s *Server) getYear(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("ano")
	if err := types.ValidateYear(raw); err != nil {
		writeErr(w, r, err)
		return
	}
	year, _ := strconv.Atoi(raw)

	store, err := s.journal.GetYear(year)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, yearResponse{Year: year, TotalDays: len(store), Records: store})
}

func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	cal, err := s.buildCalendar(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

func (s *Server) heatmap(w http.ResponseWriter, r *http.Request) {
	cal, err := s.buildCalendar(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, render.SVG(cal, render.DefaultTitle))
}

// buildCalendar reads ?semanas=N, defaulting to DefaultWeeks.
func (s *Server) buildCalendar(r *http.Request) (stats.Calendar, error) {
	weeks := DefaultWeeks
	if raw := r.URL.Query().Get("semanas"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return stats.Calendar{}, &types.ValidationError{Field: "semanas", Value: raw, Reason: "expected an integer"}
		}
		if n > MaxWeeks {
			return stats.Calendar{}, &types.ValidationError{Field: "semanas", Value: raw, Reason: "too many weeks"}
		}
		weeks = n
	}

	store, cat, err := s.snapshot()
	if err != nil {
		return stats.Calendar{}, err
	}
	return stats.CalendarBuckets(store, cat, weeks, s.clock.Now())
}

func (s *Server) snapshot() (types.Store, types.Catalog, error) {
	cat, err := s.catalog.List()
	if err != nil {
		return nil, types.Catalog{}, err
	}
	store, err := s.journal.GetAll()
	if err != nil {
		return nil, types.Catalog{}, err
	}
	return store, cat, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
