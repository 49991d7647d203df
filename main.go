package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"training-service/internal/auth"
	"training-service/internal/chatsim"
	"training-service/internal/config"
	"training-service/internal/db"
	"training-service/internal/event"
	"training-service/internal/handlers"
	"training-service/internal/repository"
	"training-service/internal/service"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	client, err := db.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Disconnect(client)
	database := client.Database(cfg.MongoDatabase)

	var publisher *event.Publisher
	if cfg.RabbitMQURI != "" {
		publisher, err = event.NewPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, domain events will not be published")
	}

	// Repositories
	userRepo := repository.NewUserRepository(database)
	lessonRepo := repository.NewLessonRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	assignmentRepo := repository.NewAssignmentRepository(database)
	analyticsRepo := repository.NewAnalyticsRepository(database)
	chatRepo := repository.NewChatRepository(database)

	idxCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := assignmentRepo.EnsureIndexes(idxCtx); err != nil {
		log.Fatalf("Failed to create assignment indexes: %v", err)
	}
	if err := analyticsRepo.EnsureIndexes(idxCtx); err != nil {
		log.Fatalf("Failed to create analytics indexes: %v", err)
	}

	// Services
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := service.NewUserService(userRepo, tokens)
	lessonService := service.NewLessonService(lessonRepo, questionRepo, assignmentRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, lessonRepo, userRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo, lessonRepo, assignmentRepo, userRepo)
	answerService := service.NewAnswerService(questionRepo, assignmentRepo, analyticsService)
	questionService := service.NewQuestionService(questionRepo, lessonRepo, assignmentRepo)
	chatService := service.NewChatService(chatRepo, chatsim.NewScripted())

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	lessonHandler := handlers.NewLessonHandler(lessonService, assignmentService)
	questionHandler := handlers.NewQuestionHandler(questionService, answerService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	chatHandler := handlers.NewChatHandler(chatService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.POST("/refresh", userHandler.Refresh)
		users.GET("/me", auth.Middleware(tokens), userHandler.Me)
	}

	authed := api.Group("")
	authed.Use(auth.Middleware(tokens))

	lessons := authed.Group("/lessons")
	{
		lessons.POST("/", func(c *gin.Context) {
			lessonHandler.Create(c)
			publishOnSuccess(c, publisher, event.LessonCreated, gin.H{})
		})
		lessons.GET("/", lessonHandler.List)
		lessons.GET("/:id", lessonHandler.Get)
		lessons.PUT("/:id", func(c *gin.Context) {
			lessonHandler.Update(c)
			publishOnSuccess(c, publisher, event.LessonUpdated, gin.H{"lessonID": c.Param("id")})
		})
		lessons.DELETE("/:id", func(c *gin.Context) {
			lessonHandler.Delete(c)
			publishOnSuccess(c, publisher, event.LessonDeleted, gin.H{"lessonID": c.Param("id")})
		})
		lessons.POST("/:id/assign", func(c *gin.Context) {
			lessonHandler.Assign(c)
			publishOnSuccess(c, publisher, event.LessonAssigned, gin.H{"lessonID": c.Param("id")})
		})
		lessons.PUT("/:id/status", func(c *gin.Context) {
			lessonHandler.UpdateStatus(c)
			publishOnSuccess(c, publisher, event.StatusChanged, gin.H{"lessonID": c.Param("id")})
		})
		lessons.DELETE("/:id/assign/:traineeId", func(c *gin.Context) {
			lessonHandler.Unassign(c)
			publishOnSuccess(c, publisher, event.Unassigned, gin.H{
				"lessonID":  c.Param("id"),
				"traineeID": c.Param("traineeId"),
			})
		})
	}

	assignments := authed.Group("/assignments")
	{
		assignments.GET("/my-lessons", lessonHandler.MyLessons)
	}

	questions := authed.Group("/questions")
	{
		questions.POST("/", questionHandler.Create)
		questions.GET("/lesson/:lessonId", questionHandler.ListByLesson)
		questions.PUT("/:id", questionHandler.Update)
		questions.DELETE("/:id", questionHandler.Delete)
		questions.POST("/answer", func(c *gin.Context) {
			questionHandler.Answer(c)
			publishOnSuccess(c, publisher, event.AnswerEvaluated, gin.H{})
		})
	}

	analytics := authed.Group("/analytics")
	{
		analytics.GET("/lesson/:id", analyticsHandler.ByLesson)
		analytics.GET("/lesson/:id/progress", analyticsHandler.LessonProgress)
		analytics.GET("/trainee/:id", analyticsHandler.ByTrainee)
	}

	chatbot := authed.Group("/chatbot")
	{
		chatbot.POST("/start", chatHandler.Start)
		chatbot.POST("/:id/message", func(c *gin.Context) {
			chatHandler.Message(c)
			publishOnSuccess(c, publisher, event.ChatMessageSent, gin.H{"sessionID": c.Param("id")})
		})
		chatbot.POST("/:id/end", chatHandler.End)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// publishOnSuccess emits a domain event after the wrapped handler answered
// with a 2xx status.
func publishOnSuccess(c *gin.Context, publisher *event.Publisher, eventType string, payload gin.H) {
	status := c.Writer.Status()
	if status < 200 || status >= 300 {
		return
	}
	if p, ok := auth.PrincipalFrom(c); ok {
		payload["actorID"] = p.ID
	}
	publisher.Publish(eventType, payload)
}
