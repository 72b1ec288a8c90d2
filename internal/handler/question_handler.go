package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"partyquiz/backend/internal/database"
	"partyquiz/backend/internal/hub"
	"partyquiz/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

type QuestionInput struct {
	Type     models.QuestionType `json:"type" binding:"required,oneof=multiple_choice true_false open"`
	Prompt   string              `json:"prompt" binding:"required"`
	Options  []string            `json:"options"`
	Answer   string              `json:"answer" binding:"required"`
	Category string              `json:"category"`
	Explicit bool                `json:"explicit"`
}

type QuestionResponse struct {
	ID       uint                `json:"id"`
	Type     models.QuestionType `json:"type"`
	Prompt   string              `json:"prompt"`
	Options  []string            `json:"options"`
	Answer   string              `json:"answer"`
	Category string              `json:"category"`
	Explicit bool                `json:"explicit"`
	Approved bool                `json:"approved"`
}

func newQuestionResponse(q models.Question) QuestionResponse {
	var options []string
	if q.Options != "" {
		_ = json.Unmarshal([]byte(q.Options), &options)
	}

	return QuestionResponse{
		ID:       q.ID,
		Type:     q.Type,
		Prompt:   q.Prompt,
		Options:  options,
		Answer:   q.Answer,
		Category: q.Category,
		Explicit: q.Explicit,
		Approved: q.Approved,
	}
}

// endregion

// SubmitQuestion godoc
// @Summary      Submit a custom question
// @Description  Adds a player-submitted question to the bank. It stays out of the draw until an admin approves it.
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body QuestionInput true "Question Info"
// @Success      201  {object}  QuestionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /questions [post]
func SubmitQuestion(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Type == models.QuestionTypeMultipleChoice && len(input.Options) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Multiple choice questions need at least two options"})
		return
	}

	optionsJSON, err := json.Marshal(input.Options)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid options"})
		return
	}

	submitter := userID.(uint)
	q := models.Question{
		Type:          input.Type,
		Prompt:        input.Prompt,
		Options:       string(optionsJSON),
		Answer:        input.Answer,
		Category:      input.Category,
		Explicit:      input.Explicit,
		Approved:      false,
		SubmittedByID: &submitter,
	}
	if err := database.DB.Create(&q).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit question"})
		return
	}

	c.JSON(http.StatusCreated, newQuestionResponse(q))
}

// GetMyQuestions godoc
// @Summary      List own submitted questions
// @Description  Retrieves the questions the caller has submitted, newest first.
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  QuestionResponse
// @Router       /questions/mine [get]
func GetMyQuestions(c *gin.Context) {
	userID, _ := c.Get("userID")

	var questions []models.Question
	database.DB.Where("submitted_by_id = ?", userID).Order("created_at DESC").Find(&questions)

	response := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		response = append(response, newQuestionResponse(q))
	}
	c.JSON(http.StatusOK, response)
}

// FlagRound godoc
// @Summary      Flag a round
// @Description  Reports a round's question as inappropriate. The round becomes flagged once enough players report it.
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int true "Game ID"
// @Param        round path int true "Round number"
// @Success      200 {object} map[string]interface{} "{"flagged": true, "flag_count": 3}"
// @Failure      404 {object} ErrorResponse "Game or round not found"
// @Router       /games/{id}/rounds/{round}/flag [post]
func FlagRound(c *gin.Context) {
	userID, _ := c.Get("userID")

	game, ok := loadGame(c)
	if !ok {
		return
	}
	roundNumber, _ := strconv.Atoi(c.Param("round"))

	if findPlayer(game, userID.(uint)) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not in this game"})
		return
	}

	var round models.GameRound
	if err := database.DB.Where("game_id = ? AND round_number = ?", game.ID, roundNumber).First(&round).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
		return
	}

	// The count increments in SQL so concurrent reports are not lost; the
	// flagged state derives from the stored count.
	wasFlagged := round.Flagged
	updates := map[string]interface{}{
		"flag_count": gorm.Expr("flag_count + 1"),
		"flagged":    gorm.Expr("flag_count + 1 >= ?", models.FlagThreshold),
	}
	if err := database.DB.Model(&models.GameRound{}).Where("id = ?", round.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to flag round"})
		return
	}
	if err := database.DB.First(&round, round.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to flag round"})
		return
	}

	if round.Flagged && !wasFlagged {
		hub.GlobalHub.Broadcast(game.ID, hub.Event{
			Type:    hub.EventRoundFlagged,
			Payload: gin.H{"round_number": round.RoundNumber},
		})
	}

	c.JSON(http.StatusOK, gin.H{"flagged": round.Flagged, "flag_count": round.FlagCount})
}

// region --- Admin Handlers ---

// GetQuestionsAdmin godoc
// @Summary      List questions for review
// @Description  Retrieves a paginated list of bank questions, optionally filtered by approval state.
// @Tags         admin-questions
// @Produce      json
// @Security     BearerAuth
// @Param        approved query bool false "Filter by approval state"
// @Param        page     query int  false "Page number" default(1)
// @Param        limit    query int  false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[QuestionResponse]
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Router       /admin/questions [get]
func GetQuestionsAdmin(c *gin.Context) {
	page, limit := pageParams(c)

	query := database.DB.Model(&models.Question{})
	if approvedStr := c.Query("approved"); approvedStr != "" {
		approved, _ := strconv.ParseBool(approvedStr)
		query = query.Where("approved = ?", approved)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count questions"})
		return
	}

	var questions []models.Question
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve questions"})
		return
	}

	response := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		response = append(response, newQuestionResponse(q))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, totalItems, page, limit))
}

// ApproveQuestion godoc
// @Summary      Approve a submitted question
// @Description  Marks a player-submitted question as approved so it enters the draw.
// @Tags         admin-questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Success      200 {object} QuestionResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Question not found"
// @Router       /admin/questions/{id}/approve [post]
func ApproveQuestion(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var q models.Question
	if err := database.DB.First(&q, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	database.DB.Model(&q).Update("approved", true)
	q.Approved = true
	c.JSON(http.StatusOK, newQuestionResponse(q))
}

// DeleteQuestion godoc
// @Summary      Delete a question
// @Description  Removes a question from the bank. Already played rounds keep their snapshot.
// @Tags         admin-questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Success      200 {object} map[string]string "{"message": "Question deleted"}"
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Question not found"
// @Router       /admin/questions/{id} [delete]
func DeleteQuestion(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	result := database.DB.Delete(&models.Question{}, id)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// endregion
