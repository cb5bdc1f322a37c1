package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"basegenius-quiz-service/internal/app"
	"basegenius-quiz-service/internal/domain"
)

// QuizHandler exposes the two quiz endpoints. Handlers are stateless
// composition over the service; failures surface as JSON error bodies with a
// generic message, details go to the log only.
type QuizHandler struct {
	service *app.QuizService
}

func NewQuizHandler(service *app.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// Register wires the handler's routes into a mux.
func (h *QuizHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/questions", h.Questions)
	mux.HandleFunc("/submit-answers", h.SubmitAnswers)
}

type errorResponse struct {
	Error string `json:"error"`
}

type submitRequest struct {
	Answers       json.RawMessage `json:"answers"`
	WalletAddress string          `json:"walletAddress"`
}

type submitResponse struct {
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"totalQuestions"`
	IsPerfectScore bool                  `json:"isPerfectScore"`
	Results        []domain.AnswerResult `json:"results"`
	WeekNumber     uint64                `json:"weekNumber"`
	CanMint        bool                  `json:"canMint"`
	MintSignature  string                `json:"mintSignature"`
	MintError      string                `json:"mintError,omitempty"`
}

// Questions serves GET /questions?difficulty=&exclude=1,2,3 with a sanitized
// random selection.
func (h *QuizHandler) Questions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	difficulty := domain.Difficulty(r.URL.Query().Get("difficulty"))
	excludeIDs := parseExcludeIDs(r.URL.Query().Get("exclude"))

	page, err := h.service.Questions(r.Context(), difficulty, excludeIDs)
	if err != nil {
		log.Printf("fetch questions failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch questions"})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// SubmitAnswers serves POST /submit-answers: grades the submission and, on a
// perfect score, attaches the mint authorization. Signing problems never fail
// the request; they ride along as the advisory mintError field.
func (h *QuizHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request format"})
		return
	}

	var submissions []domain.AnswerSubmission
	if !isJSONArray(req.Answers) || json.Unmarshal(req.Answers, &submissions) != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request format"})
		return
	}

	grading, outcome, week, err := h.service.SubmitAnswers(r.Context(), submissions, req.WalletAddress)
	if err != nil {
		log.Printf("submit answers failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to submit answers"})
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Score:          grading.Score,
		TotalQuestions: grading.TotalQuestions,
		IsPerfectScore: grading.IsPerfectScore,
		Results:        grading.Results,
		WeekNumber:     week,
		CanMint:        outcome.CanMint,
		MintSignature:  outcome.Signature,
		MintError:      outcome.Err,
	})
}

// parseExcludeIDs parses a comma-separated ID list; unparsable entries are
// ignored rather than rejected.
func parseExcludeIDs(raw string) []int {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
