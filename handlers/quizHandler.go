package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"studybuddy/models"
	"studybuddy/services/quiz"
)

type QuizHandler struct {
	service *quiz.Service
}

func NewQuizHandler(service *quiz.Service) *QuizHandler {
	return &QuizHandler{service: service}
}

func (h *QuizHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userID}/quizzes", h.ListQuizzes).Methods("GET")
	router.HandleFunc("/users/{userID}/quizzes", h.CreateQuiz).Methods("POST")
	router.HandleFunc("/users/{userID}/quizzes/{quizID}", h.GetQuiz).Methods("GET")
	router.HandleFunc("/users/{userID}/quizzes/{quizID}/answers", h.SubmitAnswers).Methods("POST")
}

func (h *QuizHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	quizzes, err := h.service.Search(r.Context(), userID, strings.TrimSpace(r.URL.Query().Get("topic")))
	if err != nil {
		slog.Error("Failed to list quizzes", "user_id", userID, "err", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list quizzes")
		return
	}

	summaries := lo.Map(quizzes, func(q *models.Quiz, _ int) models.QuizSummary {
		return q.Summary()
	})
	writeJSONResponse(w, http.StatusOK, summaries)
}

func (h *QuizHandler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	var req models.CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		writeErrorResponse(w, http.StatusBadRequest, "topic is required")
		return
	}

	created, err := h.service.Generate(r.Context(), userID, topic)
	if err != nil {
		if errors.Is(err, quiz.ErrGenerationFailed) || errors.Is(err, quiz.ErrMalformedOutput) {
			writeErrorResponse(w, http.StatusBadGateway, "Could not generate a quiz, please try again")
			return
		}
		slog.Error("Failed to create quiz", "user_id", userID, "err", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to create quiz")
		return
	}

	writeJSONResponse(w, http.StatusCreated, created.WithoutAnswers())
}

func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, quizID := vars["userID"], vars["quizID"]

	found, err := h.service.Get(r.Context(), userID, quizID)
	if err != nil {
		if errors.Is(err, quiz.ErrQuizNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "Quiz not found")
			return
		}
		slog.Error("Failed to get quiz", "user_id", userID, "quiz_id", quizID, "err", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to get quiz")
		return
	}

	writeJSONResponse(w, http.StatusOK, found.WithoutAnswers())
}

func (h *QuizHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, quizID := vars["userID"], vars["quizID"]

	var req models.SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	_, grade, err := h.service.Grade(r.Context(), userID, quizID, req.Answers)
	if err != nil {
		if errors.Is(err, quiz.ErrQuizNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "Quiz not found")
			return
		}
		slog.Error("Failed to grade quiz", "user_id", userID, "quiz_id", quizID, "err", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to grade quiz")
		return
	}

	writeJSONResponse(w, http.StatusOK, grade)
}
