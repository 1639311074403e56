package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tipote/autocomment/cmd"
	"github.com/tipote/autocomment/config"
	"github.com/tipote/autocomment/db"
	"github.com/tipote/autocomment/db/models"
	"github.com/tipote/autocomment/db/repository"
	dbservice "github.com/tipote/autocomment/db/service"
	"github.com/tipote/autocomment/engine"
	"github.com/tipote/autocomment/generator"
	"github.com/tipote/autocomment/logger"
	"github.com/tipote/autocomment/notifications"
	"github.com/tipote/autocomment/platforms"
	"github.com/tipote/autocomment/service"
)

const version = "v0.3.1"

func main() {
	flags, subcommand := cmd.ParseFlags()

	if flags.Version {
		fmt.Printf("autocomment %s\n", version)
		return
	}

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := config.GetConfigPath()
	if err := config.EnsureConfigExists(configPath); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		log.Fatal(err)
	}

	database, err := db.NewDatabase(cfg.Options.SaveLocation)
	if err != nil {
		logger.Logger.Printf("Error initializing database: %v", err)
		log.Fatal(err)
	}
	defer database.Close()

	logs := repository.NewCommentLogRepository(database.DB)
	contents := repository.NewContentRepository(database.DB)
	store := dbservice.NewCommentStore(logs, contents)

	if subcommand == "summary" {
		runSummary(store, flags.ContentID)
		return
	}

	job, err := buildJob(cfg, flags)
	if err != nil {
		log.Fatal(err)
	}

	gen, err := generator.New(cfg.ResolveAPIKey(), cfg.ResolveModel())
	if err != nil {
		log.Fatal(err)
	}

	if err := contents.Upsert(context.Background(), &models.Content{
		ID:          job.ContentID,
		UserID:      job.UserID,
		Platform:    string(job.Platform),
		PostText:    job.PostText,
		Niche:       job.Niche,
		CommentType: job.CommentType,
		NbComments:  job.NbComments,
		Status:      "pending",
	}); err != nil {
		logger.Logger.Printf("Error saving content record: %v", err)
	}

	runner := engine.NewRunner(gen, store,
		engine.WithNotifier(notifications.NewNotificationService(cfg)),
		engine.WithLogger(logger.Logger),
	)

	scheduler := service.NewBatchScheduler(runner, 1, logger.Logger)
	scheduler.Submit(job)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		scheduler.Wait()
		close(done)
	}()

	select {
	case <-done:
	case sig := <-sigChan:
		logger.Logger.Printf("Received signal %v, stopping batch", sig)
		scheduler.Stop()
	}
}

func buildJob(cfg *config.Config, flags cmd.Flags) (engine.BatchJob, error) {
	platform := platforms.Platform(strings.ToLower(flags.Platform))
	if _, ok := platforms.Lookup(platform); !ok {
		return engine.BatchJob{}, fmt.Errorf("unknown platform %q (supported: %v)", flags.Platform, platforms.Supported())
	}
	if flags.ContentID == "" {
		return engine.BatchJob{}, fmt.Errorf("-content is required")
	}
	if flags.PostText == "" {
		return engine.BatchJob{}, fmt.Errorf("-text is required")
	}

	account, ok := cfg.Account(string(platform))
	if !ok {
		return engine.BatchJob{}, fmt.Errorf("no account configured for platform %q", platform)
	}

	commentType := flags.CommentType
	if commentType != engine.CommentTypeBefore {
		commentType = engine.CommentTypeAfter
	}

	nbComments := flags.NbComments
	if nbComments <= 0 {
		nbComments = cfg.Options.NbComments
	}

	return engine.BatchJob{
		UserID:    flags.UserID,
		ContentID: flags.ContentID,
		Platform:  platform,
		Credentials: platforms.Credentials{
			AccessToken: account.AccessToken,
			UserID:      account.UserID,
		},
		Niche:       flags.Niche,
		PostText:    flags.PostText,
		StyleTone:   flags.StyleTone,
		BrandTone:   flags.BrandTone,
		CommentType: commentType,
		NbComments:  nbComments,
		DryRun:      flags.DryRun,
	}, nil
}

func runSummary(store *dbservice.CommentStore, contentID string) {
	if contentID == "" {
		log.Fatal("summary requires -content")
	}
	summary, err := store.Summary(context.Background(), contentID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Content %s: %d published, %d failed\n", contentID, summary.Published, summary.Failed)
}
