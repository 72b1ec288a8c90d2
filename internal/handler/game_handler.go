package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"partyquiz/backend/internal/config"
	"partyquiz/backend/internal/database"
	"partyquiz/backend/internal/hub"
	"partyquiz/backend/internal/ledger"
	"partyquiz/backend/internal/models"
	"partyquiz/backend/internal/question"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// region --- DTOs ---

type GameInput struct {
	Name       string `json:"name" binding:"required"`
	MaxPlayers int    `json:"max_players" binding:"required,min=2,max=32"`
	RoundLimit int    `json:"round_limit" binding:"required,min=1,max=100"`
	ChillMode  bool   `json:"chill_mode"`
}

type JoinInput struct {
	JoinCode  string `json:"join_code" binding:"required"`
	Spectator bool   `json:"spectator"`
}

type AnswerInput struct {
	Answer string `json:"answer" binding:"required"`
}

type GameResponse struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name"`
	JoinCode     string            `json:"join_code"`
	Status       models.GameStatus `json:"status"`
	HostID       uint              `json:"host_id"`
	MaxPlayers   int               `json:"max_players"`
	RoundLimit   int               `json:"round_limit"`
	ChillMode    bool              `json:"chill_mode"`
	CurrentRound int               `json:"current_round"`
	PlayerCount  int               `json:"player_count"`
}

type PlayerResponse struct {
	UserID         uint   `json:"user_id"`
	Nickname       string `json:"nickname"`
	Score          int    `json:"score"`
	AnsweredCount  int    `json:"answered_count"`
	CorrectAnswers int    `json:"correct_answers"`
	IsHost         bool   `json:"is_host"`
	IsSpectator    bool   `json:"is_spectator"`
}

// RoundResponse is the player-facing view of a round. The answer is never
// included.
type RoundResponse struct {
	ID          uint                `json:"id"`
	RoundNumber int                 `json:"round_number"`
	Type        models.QuestionType `json:"type"`
	Prompt      string              `json:"prompt"`
	Options     []string            `json:"options"`
	Category    string              `json:"category"`
	Flagged     bool                `json:"flagged"`
}

// GameDetailResponse is the full manifest of a game: the game itself, its
// players, and the player-facing round list. RoundTotal counts every round
// server-side, including ones hidden by the chill-mode filter.
type GameDetailResponse struct {
	Game       GameResponse     `json:"game"`
	Players    []PlayerResponse `json:"players"`
	Rounds     []RoundResponse  `json:"rounds"`
	RoundTotal int64            `json:"round_total"`
}

// InvitePreviewResponse is what an invite link shows before joining.
type InvitePreviewResponse struct {
	Game   GameResponse `json:"game"`
	Joined bool         `json:"joined"`
}

func newGameResponse(game models.Game) GameResponse {
	return GameResponse{
		ID:           game.ID,
		Name:         game.Name,
		JoinCode:     game.JoinCode,
		Status:       game.Status,
		HostID:       game.HostID,
		MaxPlayers:   game.MaxPlayers,
		RoundLimit:   game.RoundLimit,
		ChillMode:    game.ChillMode,
		CurrentRound: game.CurrentRound,
		PlayerCount:  len(game.Players),
	}
}

func newPlayerResponse(player models.GamePlayer) PlayerResponse {
	return PlayerResponse{
		UserID:         player.UserID,
		Nickname:       player.User.Nickname,
		Score:          player.Score,
		AnsweredCount:  player.AnsweredCount,
		CorrectAnswers: player.CorrectAnswers,
		IsHost:         player.IsHost,
		IsSpectator:    player.IsSpectator,
	}
}

func newRoundResponse(round models.GameRound) RoundResponse {
	var options []string
	if round.Options != "" {
		// Stored as a JSON array; an unparsable value just yields no options.
		_ = json.Unmarshal([]byte(round.Options), &options)
	}

	return RoundResponse{
		ID:          round.ID,
		RoundNumber: round.RoundNumber,
		Type:        round.Type,
		Prompt:      round.Prompt,
		Options:     options,
		Category:    round.Category,
		Flagged:     round.Flagged,
	}
}

func buildGameDetail(game models.Game) (GameDetailResponse, error) {
	rounds, total, err := question.PlayerRounds(database.DB, &game)
	if err != nil {
		return GameDetailResponse{}, err
	}

	players := make([]PlayerResponse, 0, len(game.Players))
	for _, player := range game.Players {
		players = append(players, newPlayerResponse(player))
	}

	roundResponses := make([]RoundResponse, 0, len(rounds))
	for _, round := range rounds {
		roundResponses = append(roundResponses, newRoundResponse(round))
	}

	return GameDetailResponse{
		Game:       newGameResponse(game),
		Players:    players,
		Rounds:     roundResponses,
		RoundTotal: total,
	}, nil
}

// endregion

// region --- Helpers ---

// newJoinCode returns a short uppercase code players type to join a game.
func newJoinCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func loadGame(c *gin.Context) (*models.Game, bool) {
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.Preload("Players.User").First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return nil, false
	}
	return &game, true
}

func findPlayer(game *models.Game, userID uint) *models.GamePlayer {
	for i := range game.Players {
		if game.Players[i].UserID == userID {
			return &game.Players[i]
		}
	}
	return nil
}

// endregion

// region --- Game Handlers ---

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a game with the caller as host and issues a join code.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  GameDetailResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /games [post]
func CreateGame(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game := models.Game{
		Name:       input.Name,
		JoinCode:   newJoinCode(),
		Status:     models.GameStatusWaiting,
		HostID:     userID.(uint),
		MaxPlayers: input.MaxPlayers,
		RoundLimit: input.RoundLimit,
		ChillMode:  input.ChillMode,
	}

	// Game creation and the host's player row commit together.
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		host := models.GamePlayer{
			GameID: game.ID,
			UserID: userID.(uint),
			IsHost: true,
		}
		return tx.Create(&host).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
		return
	}

	if err := database.DB.Preload("Players.User").First(&game, game.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game"})
		return
	}

	detail, err := buildGameDetail(game)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game"})
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// GetGames godoc
// @Summary      List joinable games
// @Description  Retrieves a paginated list of games waiting for players that still have room.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[GameResponse]
// @Router       /games [get]
func GetGames(c *gin.Context) {
	page, limit := pageParams(c)
	offset := (page - 1) * limit

	joinable := func() *gorm.DB {
		return database.DB.Model(&models.Game{}).
			Joins("LEFT JOIN game_players ON game_players.game_id = games.id AND game_players.deleted_at IS NULL").
			Where("games.status = ?", models.GameStatusWaiting).
			Group("games.id").
			Having("COUNT(game_players.id) < games.max_players")
	}

	// A grouped query needs a subquery count to get the number of groups.
	var totalItems int64
	subQuery := joinable().Select("games.id")
	if err := database.DB.Table("(?) as sub", subQuery).Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count games"})
		return
	}

	var games []models.Game
	if err := joinable().Preload("Players").Offset(offset).Limit(limit).Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve games"})
		return
	}

	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// GetGameByID godoc
// @Summary      Get a game manifest
// @Description  Retrieves a game with its players and player-facing rounds. Chill-mode games hide flagged rounds from the list while the round total still counts them.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} GameDetailResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func GetGameByID(c *gin.Context) {
	game, ok := loadGame(c)
	if !ok {
		return
	}

	detail, err := buildGameDetail(*game)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// PreviewInvite godoc
// @Summary      Preview a game by join code
// @Description  Shows the game behind an invite code without joining it. Works unauthenticated; a valid token additionally reveals whether the caller is already in the game.
// @Tags         games
// @Produce      json
// @Param        code path string true "Join code"
// @Success      200 {object} InvitePreviewResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /invites/{code} [get]
func PreviewInvite(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	var game models.Game
	if err := database.DB.Preload("Players").Where("join_code = ?", code).First(&game).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	joined := false
	if userID, ok := c.Get("userID"); ok {
		joined = findPlayer(&game, userID.(uint)) != nil
	}

	c.JSON(http.StatusOK, InvitePreviewResponse{
		Game:   newGameResponse(game),
		Joined: joined,
	})
}

// JoinGame godoc
// @Summary      Join a game by code
// @Description  Joins the game matching the join code. Rejoining the same game is idempotent.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body JoinInput true "Join Info"
// @Success      200  {object}  GameDetailResponse
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Failure      409  {object}  ErrorResponse "Game is full or already running"
// @Router       /games/join [post]
func JoinGame(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input JoinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var game models.Game
	code := strings.ToUpper(strings.TrimSpace(input.JoinCode))
	if err := database.DB.Preload("Players.User").Where("join_code = ?", code).First(&game).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	if player := findPlayer(&game, userID.(uint)); player == nil {
		if game.Status != models.GameStatusWaiting {
			c.JSON(http.StatusConflict, gin.H{"error": "Game has already started"})
			return
		}
		if len(game.Players) >= game.MaxPlayers {
			c.JSON(http.StatusConflict, gin.H{"error": "Game is full"})
			return
		}

		newPlayer := models.GamePlayer{
			GameID:      game.ID,
			UserID:      userID.(uint),
			IsSpectator: input.Spectator,
		}
		if err := database.DB.Create(&newPlayer).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join game"})
			return
		}

		hub.GlobalHub.Broadcast(game.ID, hub.Event{
			Type:    hub.EventPlayerJoined,
			Payload: gin.H{"user_id": userID, "spectator": input.Spectator},
		})

		database.DB.Preload("Players.User").First(&game, game.ID)
	}

	detail, err := buildGameDetail(game)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// LeaveGame godoc
// @Summary      Leave a game
// @Description  Leaves the game. The host role migrates to the longest-standing remaining player; an emptied game is deleted.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Left game successfully"}"
// @Failure      404 {object} ErrorResponse "Game or player not found"
// @Router       /games/{id}/leave [post]
func LeaveGame(c *gin.Context) {
	userID, _ := c.Get("userID")

	game, ok := loadGame(c)
	if !ok {
		return
	}

	player := findPlayer(game, userID.(uint))
	if player == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not in this game"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// Hard delete so the (game_id, user_id) unique index doesn't block
		// a later rejoin.
		if err := tx.Unscoped().Delete(player).Error; err != nil {
			return err
		}

		remaining := make([]models.GamePlayer, 0, len(game.Players)-1)
		for _, p := range game.Players {
			if p.UserID != userID.(uint) {
				remaining = append(remaining, p)
			}
		}

		if len(remaining) == 0 {
			return tx.Delete(game).Error
		}

		if player.IsHost {
			next := remaining[0]
			if err := tx.Model(&models.GamePlayer{}).Where("id = ?", next.ID).Update("is_host", true).Error; err != nil {
				return err
			}
			// Update by key; Model(game) carries the preloaded Players
			// association and would re-save the row deleted above.
			if err := tx.Model(&models.Game{}).Where("id = ?", game.ID).Update("host_id", next.UserID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave game"})
		return
	}

	hub.GlobalHub.Broadcast(game.ID, hub.Event{
		Type:    hub.EventPlayerLeft,
		Payload: gin.H{"user_id": userID},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Left game successfully"})
}

// StartGame godoc
// @Summary      Start a game (Host only)
// @Description  Moves a waiting game to started. Requires at least one non-spectator player.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      403 {object} ErrorResponse "Only the host can start the game"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      409 {object} ErrorResponse "Game is not waiting or has no players"
// @Router       /games/{id}/start [post]
func StartGame(c *gin.Context) {
	userID, _ := c.Get("userID")

	game, ok := loadGame(c)
	if !ok {
		return
	}

	if game.HostID != userID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can start the game"})
		return
	}
	if game.Status != models.GameStatusWaiting {
		c.JSON(http.StatusConflict, gin.H{"error": "Game is not waiting"})
		return
	}

	activePlayers := 0
	for _, p := range game.Players {
		if !p.IsSpectator {
			activePlayers++
		}
	}
	if activePlayers == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Game has no active players"})
		return
	}

	if err := database.DB.Model(&models.Game{}).Where("id = ?", game.ID).Update("status", models.GameStatusStarted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start game"})
		return
	}
	game.Status = models.GameStatusStarted

	hub.GlobalHub.Broadcast(game.ID, hub.Event{Type: hub.EventGameStarted})

	c.JSON(http.StatusOK, newGameResponse(*game))
}

// NextRound godoc
// @Summary      Draw the next round (Host only)
// @Description  Draws a question from the bank honoring chill mode and no-repeat, and appends it as the next round. Finishes the game once the round limit is reached.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      201 {object} RoundResponse
// @Success      200 {object} GameResponse "Game finished"
// @Failure      403 {object} ErrorResponse "Only the host can draw rounds"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      409 {object} ErrorResponse "Game is not running or the bank is exhausted"
// @Router       /games/{id}/rounds/next [post]
func NextRound(c *gin.Context) {
	userID, _ := c.Get("userID")

	game, ok := loadGame(c)
	if !ok {
		return
	}

	if game.HostID != userID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can draw rounds"})
		return
	}
	if game.Status != models.GameStatusStarted {
		c.JSON(http.StatusConflict, gin.H{"error": "Game is not running"})
		return
	}

	if game.CurrentRound >= game.RoundLimit {
		if err := database.DB.Model(&models.Game{}).Where("id = ?", game.ID).Update("status", models.GameStatusFinished).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finish game"})
			return
		}
		game.Status = models.GameStatusFinished

		hub.GlobalHub.Broadcast(game.ID, hub.Event{Type: hub.EventGameFinished})

		c.JSON(http.StatusOK, newGameResponse(*game))
		return
	}

	round, err := question.Draw(database.DB, game)
	if err != nil {
		if err == question.ErrBankExhausted {
			c.JSON(http.StatusConflict, gin.H{"error": "No unused questions left for this game"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to draw question"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(round).Error; err != nil {
			return err
		}
		return tx.Model(&models.Game{}).Where("id = ?", game.ID).Update("current_round", round.RoundNumber).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create round"})
		return
	}

	hub.GlobalHub.Broadcast(game.ID, hub.Event{
		Type:    hub.EventRoundStarted,
		Payload: newRoundResponse(*round),
	})

	c.JSON(http.StatusCreated, newRoundResponse(*round))
}

// AnswerRound godoc
// @Summary      Answer the current round
// @Description  Records the caller's answer for the current round. Correct answers earn shots through the ledger, tied to the round.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Game ID"
// @Param        round path int         true "Round number"
// @Param        input body AnswerInput true "Answer"
// @Success      200 {object} map[string]interface{} "{"correct": true, "score": 3}"
// @Failure      403 {object} ErrorResponse "Spectators cannot answer"
// @Failure      404 {object} ErrorResponse "Game or round not found"
// @Failure      409 {object} ErrorResponse "Round is not current"
// @Router       /games/{id}/rounds/{round}/answer [post]
func AnswerRound(c *gin.Context) {
	userID, _ := c.Get("userID")

	game, ok := loadGame(c)
	if !ok {
		return
	}
	roundNumber, _ := strconv.Atoi(c.Param("round"))

	player := findPlayer(game, userID.(uint))
	if player == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not in this game"})
		return
	}
	if player.IsSpectator {
		c.JSON(http.StatusForbidden, gin.H{"error": "Spectators cannot answer"})
		return
	}
	if game.Status != models.GameStatusStarted {
		c.JSON(http.StatusConflict, gin.H{"error": "Game is not running"})
		return
	}
	if roundNumber != game.CurrentRound {
		c.JSON(http.StatusConflict, gin.H{"error": "Round is not current"})
		return
	}

	var input AnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var round models.GameRound
	if err := database.DB.Where("game_id = ? AND round_number = ?", game.ID, roundNumber).First(&round).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
		return
	}

	correct := strings.EqualFold(strings.TrimSpace(input.Answer), strings.TrimSpace(round.Answer))

	player.AnsweredCount++
	if correct {
		player.CorrectAnswers++
		player.Score++
	}
	updates := map[string]interface{}{
		"answered_count":  player.AnsweredCount,
		"correct_answers": player.CorrectAnswers,
		"score":           player.Score,
	}
	if err := database.DB.Model(&models.GamePlayer{}).Where("id = ?", player.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record answer"})
		return
	}

	if correct {
		roundID := round.ID
		if _, err := ledger.Earn(database.DB, userID.(uint), config.AppConfig.ShotsPerCorrect, &roundID, "Correct answer"); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to credit shots"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"correct": correct, "score": player.Score})
}

// ResetGame godoc
// @Summary      Reset a game (Host only)
// @Description  Puts the game back to waiting: player counters are zeroed and rounds are archived. Ledger entries are never touched.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      403 {object} ErrorResponse "Only the host can reset the game"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id}/reset [post]
func ResetGame(c *gin.Context) {
	userID, _ := c.Get("userID")

	game, ok := loadGame(c)
	if !ok {
		return
	}

	if game.HostID != userID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can reset the game"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Game{}).Where("id = ?", game.ID).Updates(map[string]interface{}{
			"status":        models.GameStatusWaiting,
			"current_round": 0,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.GamePlayer{}).Where("game_id = ?", game.ID).Updates(map[string]interface{}{
			"score":           0,
			"answered_count":  0,
			"correct_answers": 0,
		}).Error; err != nil {
			return err
		}

		// Soft delete keeps ledger rows pointing at archived rounds valid.
		return tx.Where("game_id = ?", game.ID).Delete(&models.GameRound{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset game"})
		return
	}
	game.Status = models.GameStatusWaiting
	game.CurrentRound = 0

	hub.GlobalHub.Broadcast(game.ID, hub.Event{Type: hub.EventGameReset})

	c.JSON(http.StatusOK, newGameResponse(*game))
}

// endregion
