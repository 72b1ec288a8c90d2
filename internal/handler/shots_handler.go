package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"partyquiz/backend/internal/database"
	"partyquiz/backend/internal/hub"
	"partyquiz/backend/internal/ledger"
	"partyquiz/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type GiveShotsInput struct {
	UserID      uint   `json:"user_id" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,min=1"`
	RoundNumber *int   `json:"round_number"`
	Note        string `json:"note"`
}

type DrinkShotsInput struct {
	Amount      int64  `json:"amount" binding:"required,min=1"`
	RoundNumber *int   `json:"round_number"`
	Note        string `json:"note"`
}

type AdjustInput struct {
	Amount int64  `json:"amount" binding:"required"`
	Note   string `json:"note" binding:"required"`
}

type TransactionResponse struct {
	ID            uint                     `json:"id"`
	Type          models.TransactionType   `json:"type"`
	Amount        int64                    `json:"amount"`
	BalanceBefore int64                    `json:"balance_before"`
	BalanceAfter  int64                    `json:"balance_after"`
	Status        models.TransactionStatus `json:"status"`
	GameRoundID   *uint                    `json:"game_round_id,omitempty"`
	Note          string                   `json:"note,omitempty"`
	CreatedAt     string                   `json:"created_at"`
}

func newTransactionResponse(entry models.ShotTransaction) TransactionResponse {
	return TransactionResponse{
		ID:            entry.ID,
		Type:          entry.Type,
		Amount:        entry.Amount,
		BalanceBefore: entry.BalanceBefore,
		BalanceAfter:  entry.BalanceAfter,
		Status:        entry.Status,
		GameRoundID:   entry.GameRoundID,
		Note:          entry.Note,
		CreatedAt:     entry.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// endregion

// resolveRoundID maps an optional round number of a game to the round's
// primary key for ledger linkage.
func resolveRoundID(gameID uint, roundNumber *int) (*uint, error) {
	if roundNumber == nil {
		return nil, nil
	}
	var round models.GameRound
	if err := database.DB.Where("game_id = ? AND round_number = ?", gameID, *roundNumber).First(&round).Error; err != nil {
		return nil, err
	}
	id := round.ID
	return &id, nil
}

// GiveShots godoc
// @Summary      Award shots to a player (Host only)
// @Description  Credits shots to a player in the game, recorded in the ledger and optionally tied to a round.
// @Tags         shots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int            true "Game ID"
// @Param        input body GiveShotsInput true "Award Info"
// @Success      201 {object} TransactionResponse
// @Failure      403 {object} ErrorResponse "Only the host can award shots"
// @Failure      404 {object} ErrorResponse "Game, player or round not found"
// @Router       /games/{id}/shots/give [post]
func GiveShots(c *gin.Context) {
	userID, _ := c.Get("userID")

	game, ok := loadGame(c)
	if !ok {
		return
	}

	if game.HostID != userID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can award shots"})
		return
	}

	var input GiveShotsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if findPlayer(game, input.UserID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found in this game"})
		return
	}

	roundID, err := resolveRoundID(game.ID, input.RoundNumber)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
		return
	}

	entry, err := ledger.Earn(database.DB, input.UserID, input.Amount, roundID, input.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to award shots"})
		return
	}

	hub.GlobalHub.Broadcast(game.ID, hub.Event{
		Type:    hub.EventShotsGiven,
		Payload: gin.H{"user_id": input.UserID, "amount": input.Amount},
	})

	c.JSON(http.StatusCreated, newTransactionResponse(*entry))
}

// DrinkShots godoc
// @Summary      Spend shots
// @Description  Debits shots from the caller's balance, recorded in the ledger. Overdrafts are rejected.
// @Tags         shots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int             true "Game ID"
// @Param        input body DrinkShotsInput true "Spend Info"
// @Success      201 {object} TransactionResponse
// @Failure      404 {object} ErrorResponse "Game or round not found"
// @Failure      409 {object} ErrorResponse "Insufficient shots"
// @Router       /games/{id}/shots/drink [post]
func DrinkShots(c *gin.Context) {
	userID, _ := c.Get("userID")

	game, ok := loadGame(c)
	if !ok {
		return
	}

	if findPlayer(game, userID.(uint)) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not in this game"})
		return
	}

	var input DrinkShotsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roundID, err := resolveRoundID(game.ID, input.RoundNumber)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
		return
	}

	entry, err := ledger.Spend(database.DB, userID.(uint), input.Amount, roundID, input.Note)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientShots) {
			c.JSON(http.StatusConflict, gin.H{"error": "Insufficient shots"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to spend shots"})
		return
	}

	c.JSON(http.StatusCreated, newTransactionResponse(*entry))
}

// GetMyTransactions godoc
// @Summary      Get own transaction history
// @Description  Retrieves a paginated list of the caller's ledger entries, newest first.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[TransactionResponse]
// @Router       /users/me/transactions [get]
func GetMyTransactions(c *gin.Context) {
	userID, _ := c.Get("userID")
	page, limit := pageParams(c)

	query := database.DB.Model(&models.ShotTransaction{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
		return
	}

	var entries []models.ShotTransaction
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}

	response := make([]TransactionResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, newTransactionResponse(entry))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// AdjustBalance godoc
// @Summary      Adjust a user's balance (Admin only)
// @Description  Applies a signed manual correction to a user's shots balance through the ledger.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "User ID"
// @Param        input body AdjustInput true "Adjustment Info"
// @Success      201 {object} TransactionResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "User not found"
// @Failure      409 {object} ErrorResponse "Adjustment would overdraw the balance"
// @Router       /admin/users/{id}/adjust [post]
func AdjustBalance(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input AdjustInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := ledger.Adjust(database.DB, user.ID, input.Amount, input.Note)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientShots) {
			c.JSON(http.StatusConflict, gin.H{"error": "Adjustment would overdraw the balance"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust balance"})
		return
	}

	c.JSON(http.StatusCreated, newTransactionResponse(*entry))
}
