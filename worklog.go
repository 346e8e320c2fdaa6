package worklog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/worklogbot/worklog/pkg/confluence"
	"github.com/worklogbot/worklog/pkg/constants"
	"github.com/worklogbot/worklog/pkg/logger"
)

// API is everything a run asks of Confluence. *confluence.Client implements it.
type API interface {
	FolderAPI
	TemplateBody(ctx context.Context, templateID string) (string, error)
	CreatePage(ctx context.Context, in confluence.PageInput) (pageID string, created bool, err error)
}

// Result records what a run did.
type Result struct {
	Plan Plan

	YearFolderID  string
	MonthFolderID string
	// NextYearFolderID is set when the plan provisions next year.
	NextYearFolderID string
	// NextMonthFolderID is set when the plan provisions next month.
	NextMonthFolderID string

	// PageID is empty when no page was due or it already existed.
	PageID      string
	PageCreated bool
	// PageExists is true when the server reported the page as already present.
	PageExists bool
}

// Runner executes one worklog run against Confluence.
type Runner struct {
	api      API
	resolver *FolderResolver
	config   *Config
	logger   zerolog.Logger
}

func NewRunner(api API, config *Config, log zerolog.Logger) *Runner {
	return &Runner{
		api:      api,
		resolver: NewFolderResolver(api, log),
		config:   config,
		logger:   log,
	}
}

// Run provisions the folders for today and, on Tuesday through Thursday,
// creates this week's Thursday page from the template. Any failure aborts the run.
func (r *Runner) Run(ctx context.Context, today time.Time) (*Result, error) {
	plan := NewPlan(today)
	res := &Result{Plan: plan}

	r.logger.Info().Str(logger.CategoryField, logger.CategoryStart).
		Str("today", today.Format("2006-01-02 (Monday)")).Msg("worklog automation start")

	var err error
	res.YearFolderID, err = r.resolver.Resolve(ctx, plan.YearFolder, r.config.RootFolderID)
	if err != nil {
		return res, err
	}
	res.MonthFolderID, err = r.resolver.Resolve(ctx, plan.MonthFolder, res.YearFolderID)
	if err != nil {
		return res, err
	}

	if plan.NextYearFolder != "" {
		res.NextYearFolderID, err = r.resolver.Resolve(ctx, plan.NextYearFolder, r.config.RootFolderID)
		if err != nil {
			return res, err
		}
		r.logger.Info().Str(logger.CategoryField, logger.CategoryTask).
			Str("folder", plan.NextYearFolder).Msg("next year folder checked")
	}

	if next := plan.NextMonth; next != nil {
		yearID, err := r.resolver.Resolve(ctx, next.YearFolder, r.config.RootFolderID)
		if err != nil {
			return res, err
		}
		res.NextMonthFolderID, err = r.resolver.Resolve(ctx, next.MonthFolder, yearID)
		if err != nil {
			return res, err
		}
		r.logger.Info().Str(logger.CategoryField, logger.CategoryTask).
			Str("folder", next.MonthFolder).Msg("next month folder checked")
	}

	if plan.Page == nil {
		r.logger.Info().Str(logger.CategoryField, logger.CategoryDone).
			Str("weekday", today.Weekday().String()).Msg("no worklog page due today")
		return res, nil
	}

	if err := r.createPage(ctx, plan.Page, res); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Runner) createPage(ctx context.Context, page *PageSpec, res *Result) error {
	body, err := r.api.TemplateBody(ctx, r.config.TemplateID)
	if err != nil {
		r.logger.Error().Str(logger.CategoryField, logger.CategoryError).
			Str("template_id", r.config.TemplateID).Err(err).Msg("failed to fetch template")
		return fmt.Errorf("fetch template %s: %w", r.config.TemplateID, err)
	}

	placeholder := r.config.PlaceholderDate
	if placeholder == "" {
		placeholder = constants.DefaultPlaceholderDate
	}
	body = SubstituteDate(body, placeholder, page.TargetDate)

	id, created, err := r.api.CreatePage(ctx, confluence.PageInput{
		Title:    page.Title,
		ParentID: res.MonthFolderID,
		Body:     body,
	})
	if err != nil {
		r.logger.Error().Str(logger.CategoryField, logger.CategoryError).
			Str("title", page.Title).Err(err).Msg("failed to create page")
		return fmt.Errorf("create page %q: %w", page.Title, err)
	}

	if !created {
		res.PageExists = true
		r.logger.Info().Str(logger.CategoryField, logger.CategorySkip).
			Str("title", page.Title).Msg("page already exists")
		return nil
	}

	res.PageID = id
	res.PageCreated = true
	r.logger.Info().Str(logger.CategoryField, logger.CategoryCreate).
		Str("title", page.Title).Str("date", page.TargetDate).Str("id", id).Msg("page created")
	return nil
}
