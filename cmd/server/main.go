package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lallen30/skype-clone/internal/config"
	"github.com/lallen30/skype-clone/internal/database"
	"github.com/lallen30/skype-clone/internal/repository/postgres"
	"github.com/lallen30/skype-clone/internal/service"
	"github.com/lallen30/skype-clone/internal/transport/http/handlers"
	"github.com/lallen30/skype-clone/internal/transport/http/middleware"
	"github.com/lallen30/skype-clone/internal/transport/ws"
	"github.com/lallen30/skype-clone/internal/upload"
)

func main() {
	cfg := config.Load()

	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(cfg, "migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	store, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload store: %v", err)
	}

	userRepo := postgres.NewUserRepo(pool)
	convRepo := postgres.NewConversationRepo(pool)
	msgRepo := postgres.NewMessageRepo(pool)

	hasher := service.NewArgon2Hasher()
	authService := service.NewAuthService(userRepo, hasher, cfg.JWTSecret)
	userService := service.NewUserService(userRepo)
	chatService := service.NewChatService(convRepo, msgRepo, userRepo)
	messageService := service.NewMessageService(msgRepo, convRepo)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, store)
	chatHandler := handlers.NewChatHandler(chatService)
	messageHandler := handlers.NewMessageHandler(messageService)
	fileHandler := handlers.NewFileHandler(messageService, store)

	hub := ws.NewHub()
	go hub.Run()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	auth := middleware.Auth(cfg.JWTSecret)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/me", authHandler.Me)
			r.Post("/logout", authHandler.Logout)
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", userHandler.List)
		r.Patch("/status", userHandler.UpdateStatus)
		r.Post("/avatar", userHandler.UpdateAvatar)
		r.Get("/{id}", userHandler.Get)
		r.Patch("/{id}", userHandler.Update)
	})

	r.Route("/api/chats", func(r chi.Router) {
		r.Use(auth)
		r.Post("/conversations", chatHandler.CreateConversation)
		r.Get("/conversations", chatHandler.ListConversations)
		r.Get("/conversations/{id}", chatHandler.GetConversation)
		r.Post("/conversations/{conversationId}/users", chatHandler.AddUser)
		r.Delete("/conversations/{conversationId}/users/{userId}", chatHandler.RemoveUser)
		r.Post("/messages", messageHandler.Send)
		r.Get("/messages/{conversationId}", messageHandler.List)
		r.Post("/messages/{conversationId}/read", messageHandler.MarkRead)
	})

	r.Route("/api/files", func(r chi.Router) {
		r.Use(auth)
		r.Post("/upload", fileHandler.Upload)
		r.Get("/{id}", fileHandler.Get)
	})

	r.Get("/ws", ws.ServeWS(hub, cfg.JWTSecret))

	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(store.Dir())))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Printf("server listening on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("server stopped")
}
