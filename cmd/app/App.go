package app

import (
	"context"
	"sync"

	"chantierpro/configs"
	"chantierpro/internal/handlers"
	"chantierpro/internal/repositories"
	"chantierpro/internal/servers/database"
	"chantierpro/internal/servers/http"
	"chantierpro/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.initializeConfigs()
	app.initializeRedis()

	db := database.GetDB(app.configs)

	authRepo := repositories.NewAuthenticationRepository(db)
	authService := services.NewAuthenticationService(authRepo, app.configs)

	conversationCache := repositories.NewConversationCache(app.redis, app.ctx)
	chatRepo := repositories.NewChatRepository(db, conversationCache)
	chatService := services.NewChatService(chatRepo)

	minioService := services.NewMinioService(app.configs)
	fileManagerService := services.NewFileManagerService(minioService)

	restHandler := handlers.NewRestHandler(
		authService,
		chatService,
		fileManagerService,
	)

	http.NewHttpServer(app.ctx, app.configs, restHandler).Run()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.configs.Viper.GetString("redis.address"),
		Password: app.configs.Viper.GetString("redis.password"),
		DB:       app.configs.Viper.GetInt("redis.db"),
	})
}

func (app *App) initializeConfigs() {
	app.configs = configs.GetConfig()
}
