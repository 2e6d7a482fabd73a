package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ABREV_GO/config"
	"ABREV_GO/database"
	"ABREV_GO/logger"
	"ABREV_GO/middleware"
	"ABREV_GO/routes"
)

const shutdownTimeout = 5 * time.Second

func main() {
	envErr := config.LoadEnv()

	log, err := logger.New(config.GetLogLevel())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if envErr != nil {
		log.Info("arquivo .env não encontrado, usando variáveis de ambiente")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Conectar ao banco de dados
	db, err := database.Connect(ctx)
	if err != nil {
		log.Fatal("erro ao conectar ao banco de dados", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatal("erro ao executar migrações", zap.Error(err))
	}
	log.Info("migrações executadas com sucesso")

	secret, err := config.GetJwtSecret()
	if err != nil {
		log.Fatal("configuração inválida", zap.Error(err))
	}
	port, err := config.GetPortServerStart()
	if err != nil {
		log.Fatal("configuração inválida", zap.Error(err))
	}

	trusted, err := config.GetTrustedProxies()
	if err != nil {
		log.Fatal("configuração inválida", zap.Error(err))
	}
	limit, window := config.GetRateLimit()
	limiter := middleware.NewRateLimiter(limit, window, trusted, log)
	defer limiter.Close()

	router := routes.SetupRoutes(routes.Deps{
		Store:     database.NewPixStore(db),
		DB:        db,
		Limiter:   limiter,
		Sanitizer: middleware.NewSanitizer(),
		JwtSecret: []byte(secret),
		Log:       log,
	})
	router.Use(middleware.RequestLogger(log, trusted))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           middleware.CorsMiddleware(config.GetCorsOrigin())(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("servidor rodando", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("erro no servidor HTTP", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("erro ao encerrar servidor", zap.Error(err))
	}
}
