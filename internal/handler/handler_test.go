package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"partyquiz/backend/internal/auth"
	"partyquiz/backend/internal/config"
	"partyquiz/backend/internal/database"
	"partyquiz/backend/internal/models"
	"partyquiz/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest wires an in-memory database and a router with the same routes
// as cmd/server.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{
		JWTSecret:       "test-secret",
		ShotsPerCorrect: 1,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	router := gin.New()
	apiV1 := router.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.POST("/register", RegisterUser)
	authRoutes.POST("/login", LoginUser)

	userRoutes := apiV1.Group("/users", auth.AuthMiddleware())
	userRoutes.GET("/me", GetMe)
	userRoutes.GET("/me/balance", GetMyBalance)
	userRoutes.GET("/me/transactions", GetMyTransactions)

	apiV1.GET("/invites/:code", auth.OptionalAuthMiddleware(), PreviewInvite)

	gameRoutes := apiV1.Group("/games", auth.AuthMiddleware())
	gameRoutes.POST("", CreateGame)
	gameRoutes.GET("", GetGames)
	gameRoutes.POST("/join", JoinGame)
	gameRoutes.GET("/:id", GetGameByID)
	gameRoutes.POST("/:id/leave", LeaveGame)
	gameRoutes.POST("/:id/start", StartGame)
	gameRoutes.POST("/:id/reset", ResetGame)
	gameRoutes.POST("/:id/rounds/next", NextRound)
	gameRoutes.POST("/:id/rounds/:round/answer", AnswerRound)
	gameRoutes.POST("/:id/rounds/:round/flag", FlagRound)
	gameRoutes.POST("/:id/shots/give", GiveShots)
	gameRoutes.POST("/:id/shots/drink", DrinkShots)

	questionRoutes := apiV1.Group("/questions", auth.AuthMiddleware())
	questionRoutes.POST("", SubmitQuestion)
	questionRoutes.GET("/mine", GetMyQuestions)

	adminRoutes := apiV1.Group("/admin", auth.AuthMiddleware(), auth.AdminMiddleware())
	adminRoutes.GET("/questions", GetQuestionsAdmin)
	adminRoutes.POST("/questions/:id/approve", ApproveQuestion)
	adminRoutes.DELETE("/questions/:id", DeleteQuestion)
	adminRoutes.POST("/users/:id/adjust", AdjustBalance)

	return router
}

// createUser inserts a user directly and returns it with a valid token.
func createUser(t *testing.T, nickname, role string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Nickname:     nickname,
		Email:        nickname + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	token, err := jwt.GenerateToken(user.ID)
	require.NoError(t, err)
	return user, token
}

func seedQuestions(t *testing.T, prompts ...string) {
	t.Helper()
	for _, prompt := range prompts {
		q := models.Question{
			Type:     models.QuestionTypeOpen,
			Prompt:   prompt,
			Answer:   "42",
			Category: "general",
			Approved: true,
		}
		require.NoError(t, database.DB.Create(&q).Error)
	}
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
