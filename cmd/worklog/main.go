package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/worklogbot/worklog"
	"github.com/worklogbot/worklog/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file (silently ignore if it doesn't exist)
	_ = godotenv.Load()

	config, err := worklog.LoadConfig(os.LookupEnv)
	if err == nil {
		err = config.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return worklog.ExitCode(err)
	}

	logData, err := worklog.NewLogger(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return worklog.ExitCode(err)
	}
	defer logData.Close()
	log := logData.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := worklog.Do(ctx, config, log, time.Now())
	if err != nil {
		log.Error().Str(logger.CategoryField, logger.CategoryError).
			Str("kind", worklog.Classify(err).String()).Err(err).Msg("worklog run failed")
		return worklog.ExitCode(err)
	}

	ev := log.Info().Str(logger.CategoryField, logger.CategoryDone).
		Str("year_folder_id", res.YearFolderID).
		Str("month_folder_id", res.MonthFolderID)
	if res.Plan.Page != nil {
		ev = ev.Str("page", res.Plan.Page.Title).Bool("created", res.PageCreated).Str("page_id", res.PageID)
	}
	ev.Msg("worklog run finished")
	return 0
}
