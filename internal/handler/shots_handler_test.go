package handler

import (
	"fmt"
	"net/http"
	"testing"

	"partyquiz/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGiveAndDrinkShots(t *testing.T) {
	router := setupTest(t)
	_, hostToken := createUser(t, "host", "user")
	player, playerToken := createUser(t, "player", "user")

	w := doRequest(t, router, http.MethodPost, "/api/v1/games", hostToken, h{
		"name": "shots", "max_players": 4, "round_limit": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var detail GameDetailResponse
	decode(t, w, &detail)
	gameID := detail.Game.ID

	w = doRequest(t, router, http.MethodPost, "/api/v1/games/join", playerToken, h{"join_code": detail.Game.JoinCode})
	require.Equal(t, http.StatusOK, w.Code)

	// Only the host can award.
	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/shots/give", gameID), playerToken, h{
		"user_id": player.ID, "amount": 3,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/shots/give", gameID), hostToken, h{
		"user_id": player.ID, "amount": 3, "note": "winner",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var entry TransactionResponse
	decode(t, w, &entry)
	assert.Equal(t, models.TransactionTypeEarn, entry.Type)
	assert.EqualValues(t, 3, entry.BalanceAfter)

	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/shots/drink", gameID), playerToken, h{
		"amount": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &entry)
	assert.EqualValues(t, -2, entry.Amount)
	assert.EqualValues(t, 1, entry.BalanceAfter)

	// Overdraft is rejected.
	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/shots/drink", gameID), playerToken, h{
		"amount": 5,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/users/me/balance", playerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balance BalanceResponse
	decode(t, w, &balance)
	assert.EqualValues(t, 1, balance.Balance)
	assert.EqualValues(t, 3, balance.LifetimeEarned)
	assert.EqualValues(t, 2, balance.LifetimeSpent)

	w = doRequest(t, router, http.MethodGet, "/api/v1/users/me/transactions", playerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history PaginatedResponse[TransactionResponse]
	decode(t, w, &history)
	assert.EqualValues(t, 2, history.Meta.TotalItems)
}

func TestGiveShotsToOutsiderFails(t *testing.T) {
	router := setupTest(t)
	_, hostToken := createUser(t, "host", "user")
	outsider, _ := createUser(t, "outsider", "user")

	w := doRequest(t, router, http.MethodPost, "/api/v1/games", hostToken, h{
		"name": "exclusive", "max_players": 4, "round_limit": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var detail GameDetailResponse
	decode(t, w, &detail)

	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/games/%d/shots/give", detail.Game.ID), hostToken, h{
		"user_id": outsider.ID, "amount": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminAdjustBalance(t *testing.T) {
	router := setupTest(t)
	user, userToken := createUser(t, "target", "user")
	_, adminToken := createUser(t, "moderator", "admin")

	w := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/admin/users/%d/adjust", user.ID), adminToken, h{
		"amount": 10, "note": "compensation",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var entry TransactionResponse
	decode(t, w, &entry)
	assert.Equal(t, models.TransactionTypeAdjust, entry.Type)
	assert.EqualValues(t, 10, entry.BalanceAfter)

	// Over-debiting is rejected.
	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/admin/users/%d/adjust", user.ID), adminToken, h{
		"amount": -99, "note": "too much",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Non-admins can't adjust.
	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/admin/users/%d/adjust", user.ID), userToken, h{
		"amount": 1, "note": "self serve",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/users/me/balance", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balance BalanceResponse
	decode(t, w, &balance)
	assert.EqualValues(t, 10, balance.Balance)
}
