package main

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/mintygd/demonlist/internal/config"
	"github.com/mintygd/demonlist/internal/handler"
	"github.com/mintygd/demonlist/internal/middleware"
	"github.com/mintygd/demonlist/internal/model"
	"github.com/mintygd/demonlist/internal/repository"
	"github.com/mintygd/demonlist/internal/service"
	"github.com/mintygd/demonlist/pkg/database"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := seedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, rate limiting and leaderboard caching disabled")
	}

	var searchService service.SearchService
	if cfg.MeiliMasterKey != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchService = service.NewSearchService(meiliClient)
	} else {
		log.Println("MEILI_MASTER_KEY not set, demon search disabled")
	}

	userRepo := repository.NewUserRepository(db)
	demonRepo := repository.NewDemonRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handler.NewAuthHandler(authService, userRepo)

	listService := service.NewListService(demonRepo, searchService, cfg.ListMaxRanked)
	demonHandler := handler.NewDemonHandler(listService, searchService)

	recordService := service.NewRecordService(recordRepo, demonRepo, redisClient, cfg.SubmitCooldown)
	recordHandler := handler.NewRecordHandler(recordService)

	leaderboardService := service.NewLeaderboardService(leaderboardRepo, userRepo, redisClient)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)

	adminService := service.NewAdminService(userRepo)
	adminHandler := handler.NewAdminHandler(adminService)

	router := gin.Default()
	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")
	{
		// Public routes
		api.GET("/demons", demonHandler.GetDemons)
		api.GET("/demons/search", demonHandler.SearchDemons)
		api.GET("/demons/:id", demonHandler.GetDemon)
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)

		// Authenticated routes
		protected := api.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			protected.POST("/records", recordHandler.SubmitRecord)
			protected.GET("/records/me", recordHandler.GetMyRecords)

			// Record review is open to moderators as well as admins
			staff := protected.Group("/admin")
			staff.Use(authMiddleware.RequireStaff())
			{
				staff.GET("/records", recordHandler.GetReviewQueue)
				staff.POST("/records/:id/approve", recordHandler.ApproveRecord)
				staff.POST("/records/:id/reject", recordHandler.RejectRecord)
			}

			// List curation and user management are admin only
			admin := protected.Group("/admin")
			admin.Use(authMiddleware.RequireAdmin())
			{
				admin.POST("/demons", demonHandler.CreateDemon)
				admin.PUT("/demons/reorder", demonHandler.Reorder)
				admin.PUT("/demons/:id", demonHandler.UpdateDemon)
				admin.DELETE("/demons/:id", demonHandler.DeleteDemon)
				admin.GET("/users", adminHandler.GetAllUsers)
				admin.PATCH("/users/:id/role", adminHandler.UpdateUserRole)
			}
		}
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Demon{},
		&model.Record{},
	)
}

func seedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: model.RoleAdmin, Description: "List administrator"},
		{Name: model.RoleModerator, Description: "Record moderator"},
		{Name: model.RolePlayer, Description: "Player"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func seedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@demonlist.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Username:     "admin",
		Email:        "admin@demonlist.local",
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded (admin@demonlist.local / admin123)")
	return nil
}
