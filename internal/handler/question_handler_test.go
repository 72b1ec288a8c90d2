package handler

import (
	"fmt"
	"net/http"
	"testing"

	"partyquiz/backend/internal/database"
	"partyquiz/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitCustomQuestion(t *testing.T) {
	router := setupTest(t)
	_, userToken := createUser(t, "writer", "user")

	w := doRequest(t, router, http.MethodPost, "/api/v1/questions", userToken, h{
		"type":     "multiple_choice",
		"prompt":   "best party drink?",
		"options":  []string{"water", "juice"},
		"answer":   "juice",
		"category": "party",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var q QuestionResponse
	decode(t, w, &q)
	assert.False(t, q.Approved, "custom questions start unapproved")
	assert.Equal(t, []string{"water", "juice"}, q.Options)

	// The stored row is unapproved too, not just the response echo.
	var stored models.Question
	require.NoError(t, database.DB.First(&stored, q.ID).Error)
	assert.False(t, stored.Approved)

	// Multiple choice needs options.
	w = doRequest(t, router, http.MethodPost, "/api/v1/questions", userToken, h{
		"type": "multiple_choice", "prompt": "no options?", "answer": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/questions/mine", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []QuestionResponse
	decode(t, w, &mine)
	assert.Len(t, mine, 1)
}

func TestAdminQuestionReview(t *testing.T) {
	router := setupTest(t)
	_, userToken := createUser(t, "writer", "user")
	_, adminToken := createUser(t, "moderator", "admin")

	w := doRequest(t, router, http.MethodPost, "/api/v1/questions", userToken, h{
		"type": "open", "prompt": "submitted", "answer": "yes",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var q QuestionResponse
	decode(t, w, &q)

	// Non-admins are rejected.
	w = doRequest(t, router, http.MethodGet, "/api/v1/admin/questions?approved=false", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/admin/questions?approved=false", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending PaginatedResponse[QuestionResponse]
	decode(t, w, &pending)
	require.Len(t, pending.Data, 1)

	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/admin/questions/%d/approve", q.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &q)
	assert.True(t, q.Approved)

	w = doRequest(t, router, http.MethodGet, "/api/v1/admin/questions?approved=false", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &pending)
	assert.Len(t, pending.Data, 0)

	w = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/admin/questions/%d", q.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/admin/questions/%d", q.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApprovedCustomQuestionEntersDraw(t *testing.T) {
	router := setupTest(t)
	_, userToken := createUser(t, "writer", "user")
	_, adminToken := createUser(t, "moderator", "admin")

	w := doRequest(t, router, http.MethodPost, "/api/v1/questions", userToken, h{
		"type": "open", "prompt": "the only question", "answer": "yes",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var q QuestionResponse
	decode(t, w, &q)

	w = doRequest(t, router, http.MethodPost, "/api/v1/games", userToken, h{
		"name": "custom", "max_players": 4, "round_limit": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var detail GameDetailResponse
	decode(t, w, &detail)
	gameID := detail.Game.ID
	doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/start", gameID), userToken, nil)

	// Unapproved: the bank is empty.
	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/rounds/next", gameID), userToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/admin/questions/%d/approve", q.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/rounds/next", gameID), userToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var round RoundResponse
	decode(t, w, &round)
	assert.Equal(t, "the only question", round.Prompt)
}
