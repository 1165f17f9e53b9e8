package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"chantierpro/configs"
	"chantierpro/internal/handlers"
	"chantierpro/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx     context.Context
	configs *configs.Config
	router  *gin.Engine
	handler *handlers.RestHandler
	logger  zerolog.Logger
}

func NewHttpServer(ctx context.Context, configs *configs.Config, handler *handlers.RestHandler) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:     ctx,
			configs: configs,
			handler: handler,
			logger:  logging.Component("http-server"),
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.initializeGin()
	hs.setupRestfulRoutes()

	server := hs.startServer()

	// Wait for interrupt signal to gracefully shut down the server
	hs.waitForShutdown(server)
}

func (hs *HttpServer) initializeGin() {
	hs.router = gin.Default()
}

func (hs *HttpServer) setupRestfulRoutes() {
	hs.router.POST("/login", hs.handler.Login)
	hs.router.POST("/register", hs.handler.Register)

	authenticated := hs.router.Group("/", hs.handler.MustAuthenticateMiddleware())
	{
		authenticated.GET("/conversations", hs.handler.GetUserConversations)
		authenticated.POST("/conversations", hs.handler.CreateConversation)
		authenticated.GET("/conversations/:id/messages", hs.handler.GetMessagesByConversationID)

		authenticated.POST("/messages", hs.handler.SaveMessage)
		authenticated.PUT("/messages/:id", hs.handler.UpdateMessage)
		authenticated.DELETE("/messages/:id", hs.handler.DeleteMessage)
		authenticated.POST("/messages/mark-read", hs.handler.MarkConversationRead)

		authenticated.GET("/users", hs.handler.GetAllUsersWithPagination)
		authenticated.GET("/users/:id", hs.handler.GetSingleUser)
		authenticated.PUT("/users", hs.handler.UpdateUser)
		authenticated.POST("/users/profile-photo", hs.handler.UploadUserProfilePhoto)

		authenticated.POST("/attachments", hs.handler.UploadMessagePhoto)
	}
}

func (hs *HttpServer) startServer() *http.Server {
	addr := fmt.Sprintf(
		"%s:%d",
		hs.configs.Viper.GetString("server.host"),
		hs.configs.Viper.GetInt("server.port"),
	)

	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		hs.logger.Info().Str("addr", addr).Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			hs.logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	hs.logger.Info().Msg("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		hs.logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	hs.logger.Info().Msg("Server exiting")
}
