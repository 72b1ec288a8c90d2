package main

import (
	"net/http"

	"partyquiz/backend/internal/auth"
	"partyquiz/backend/internal/config"
	"partyquiz/backend/internal/database"
	"partyquiz/backend/internal/handler"
	"partyquiz/backend/internal/middleware"

	log "github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "partyquiz/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Partyquiz API
// @version         1.0
// @description     This is the API for the Partyquiz service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()
	router.Use(middleware.RequestTimer(middleware.GlobalRegistry))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Request timing snapshot
	router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, middleware.GlobalRegistry.Snapshot())
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.GET("/me/balance", handler.GetMyBalance)
			userRoutes.GET("/me/transactions", handler.GetMyTransactions)
		}

		// Invite previews work without a token; a valid one enriches the response.
		apiV1.GET("/invites/:code", auth.OptionalAuthMiddleware(), handler.PreviewInvite)

		// Game routes (protected)
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.AuthMiddleware())
		{
			gameRoutes.POST("", handler.CreateGame)
			gameRoutes.GET("", handler.GetGames)
			gameRoutes.POST("/join", handler.JoinGame) // By code, not ID
			gameRoutes.GET("/:id", handler.GetGameByID)
			gameRoutes.POST("/:id/leave", handler.LeaveGame)
			gameRoutes.POST("/:id/start", handler.StartGame)
			gameRoutes.POST("/:id/reset", handler.ResetGame)
			gameRoutes.GET("/:id/events", handler.StreamGameEvents)

			// Rounds
			gameRoutes.POST("/:id/rounds/next", handler.NextRound)
			gameRoutes.POST("/:id/rounds/:round/answer", handler.AnswerRound)
			gameRoutes.POST("/:id/rounds/:round/flag", handler.FlagRound)

			// Shots
			gameRoutes.POST("/:id/shots/give", handler.GiveShots)
			gameRoutes.POST("/:id/shots/drink", handler.DrinkShots)
		}

		// Question routes (protected)
		questionRoutes := apiV1.Group("/questions")
		questionRoutes.Use(auth.AuthMiddleware())
		{
			questionRoutes.POST("", handler.SubmitQuestion)
			questionRoutes.GET("/mine", handler.GetMyQuestions)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			// Question moderation
			questions := adminRoutes.Group("/questions")
			{
				questions.GET("", handler.GetQuestionsAdmin)
				questions.POST("/:id/approve", handler.ApproveQuestion)
				questions.DELETE("/:id", handler.DeleteQuestion)
			}

			// Ledger corrections
			adminRoutes.POST("/users/:id/adjust", handler.AdjustBalance)
		}
	}

	addr := ":" + config.AppConfig.Port
	log.Infof("Server is running on %s", addr)
	log.Infof("Swagger UI is available at http://localhost%s/swagger/index.html", addr)
	log.Fatal(router.Run(addr))
}
