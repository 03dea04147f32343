package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/services"
)

const (
	maxImportBytes = 10 << 20

	// maxResponseTimeMS caps client-reported response times at one day.
	maxResponseTimeMS = int64(24 * time.Hour / time.Millisecond)
)

type resultRequest struct {
	Correct        bool   `json:"correct"`
	Attempts       int    `json:"attempts"`
	ResponseTimeMS int64  `json:"response_time_ms"`
	SessionID      string `json:"session_id"`
}

type resultResponse struct {
	FlashcardID      string    `json:"flashcard_id"`
	MasteryLevel     int       `json:"mastery_level"`
	IntervalDays     int       `json:"interval_days"`
	NextReviewAt     time.Time `json:"next_review_at"`
	Streak           int       `json:"streak"`
	LastPracticeDate string    `json:"last_practice_date"`
}

type flashcardPage struct {
	Flashcards []models.Flashcard `json:"flashcards"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalPages int                `json:"total_pages"`
}

func (s *Server) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	q := r.URL.Query()
	page, perPage := pageParams(r)

	filter := models.FlashcardFilter{
		UserID:    user.ID,
		Search:    strings.TrimSpace(q.Get("search")),
		Direction: models.Direction(q.Get("direction")),
		OrderBy:   q.Get("order_by"),
		OrderDir:  strings.ToUpper(q.Get("order_dir")),
		Limit:     perPage,
		Offset:    (page - 1) * perPage,
	}
	var err error
	if filter.MinMastery, err = queryInt(r, "min_mastery"); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.MaxMastery, err = queryInt(r, "max_mastery"); err != nil {
		handleError(w, r, err)
		return
	}
	filter.DueOnly = q.Get("due") == "true"

	logger.FromContext(r.Context()).Debug("listing flashcards: page=%d, per_page=%d, search=%q", page, perPage, filter.Search)

	cards, total, err := s.FlashcardService.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	writeJSON(w, r, http.StatusOK, flashcardPage{
		Flashcards: cards,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	})
}

func (s *Server) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var in services.CreateFlashcardInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.FlashcardService.Create(r.Context(), user.ID, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.FlashcardService.Delete(r.Context(), id, user.ID); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSaveResult records a result reported by a client that runs its own
// practice loop.
func (s *Server) handleSaveResult(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req resultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.ResponseTimeMS < 0 {
		handleError(w, r, errors.NewValidationError("response_time_ms", "cannot be negative"))
		return
	}
	if req.ResponseTimeMS > maxResponseTimeMS {
		req.ResponseTimeMS = maxResponseTimeMS
	}

	out, err := s.FlashcardService.SaveResult(r.Context(), services.SaveResultInput{
		UserID:       user.ID,
		FlashcardID:  id,
		SessionID:    req.SessionID,
		Correct:      req.Correct,
		Attempts:     req.Attempts,
		ResponseTime: time.Duration(req.ResponseTimeMS) * time.Millisecond,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, resultResponse{
		FlashcardID:      id,
		MasteryLevel:     out.Level,
		IntervalDays:     out.IntervalDays,
		NextReviewAt:     out.NextReviewAt,
		Streak:           out.Streak,
		LastPracticeDate: out.LastPracticeDate.Format("2006-01-02"),
	})
}

func (s *Server) handleImportFlashcards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		log.Warn("invalid import upload: %v", err)
		handleError(w, r, errors.NewBadRequestError("expected a multipart upload with a file field"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("missing file field"))
		return
	}
	defer file.Close()

	summary, err := s.ImportService.Import(r.Context(), user.ID, header.Filename, file)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}
