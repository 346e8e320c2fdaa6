package worklog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/worklogbot/worklog/pkg/confluence"
	"github.com/worklogbot/worklog/pkg/constants"
	"github.com/worklogbot/worklog/pkg/logger"
)

// NewLogger builds the run's logger from the LOG_* settings.
// A bad level or an unwritable log file is a configuration error.
func NewLogger(config *Config) (*logger.LogData, error) {
	logData, err := logger.New().
		FromPath(config.LogFile).
		Level(config.LogLevel).
		Pretty(config.LogPretty).
		Make()
	if err != nil {
		return nil, fmt.Errorf("%w: logger: %v", constants.ErrInvalidConfig, err)
	}
	return logData, nil
}

// NewClient builds the Confluence client described by config.
func NewClient(config *Config, log zerolog.Logger) *confluence.Client {
	return confluence.NewClient(confluence.NewClientParams{
		BaseURL:   config.BaseURL,
		BaseURLV1: config.BaseURLV1,
		SpaceID:   config.SpaceID,
		User:      config.User,
		APIToken:  config.APIToken,
		Logger:    log,
	}).SetTimeout(config.HTTPTimeout)
}

// Do executes one run based on the provided configuration.
// The configuration should be validated before calling this function.
// now is only consulted when config does not pin the date.
func Do(ctx context.Context, config *Config, log zerolog.Logger, now time.Time) (*Result, error) {
	log = log.With().Str("run_id", uuid.NewString()).Logger()

	today, err := config.Today(now)
	if err != nil {
		return nil, err
	}

	return NewRunner(NewClient(config, log), config, log).Run(ctx, today)
}
