package cmd

import (
	"context"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"invest-tracker/internal/delivery/http"
	"invest-tracker/internal/repository"
	"invest-tracker/internal/service"
	"invest-tracker/internal/taskqueue"
	"invest-tracker/pkg/middleware"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the API server, task worker and scheduler",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log)
	tasks := taskqueue.NewClient(repo.TaskRepo)

	services := service.NewService(
		appDep.cfg,
		appDep.log,
		repo,
		tasks,
		appDep.notifier,
	)

	worker := taskqueue.NewWorker(appDep.cfg.Worker, repo.TaskRepo, appDep.log)
	services.Orchestrator.RegisterHandlers(worker)
	go worker.Run(ctx)

	if err := services.SchedulerService.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	appDep.echo.Use(middleware.NewRateLimiterMiddleware(10, 30))
	httpHandler := http.NewHttpAPIHandler(ctx, appDep.echo, appDep.validator, services)

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	services.SchedulerService.Stop()

	if err := apiServer.Stop(); err != nil {
		log.Fatalf("Failed to stop HTTP server: %v", err)
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}
