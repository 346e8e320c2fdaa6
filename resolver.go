package worklog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/worklogbot/worklog/pkg/confluence"
	"github.com/worklogbot/worklog/pkg/logger"
)

// FolderAPI is the part of the Confluence client the resolver needs.
type FolderAPI interface {
	ListFolderChildren(ctx context.Context, parentID string) ([]confluence.Folder, error)
	CreateFolder(ctx context.Context, title, parentID string) (string, error)
}

// FolderResolver finds a folder by title under a parent, creating it when absent.
// It always asks the server; nothing is cached between calls.
type FolderResolver struct {
	api    FolderAPI
	logger zerolog.Logger
}

func NewFolderResolver(api FolderAPI, log zerolog.Logger) *FolderResolver {
	return &FolderResolver{api: api, logger: log}
}

// Resolve returns the ID of the child of parentID titled name.
func (r *FolderResolver) Resolve(ctx context.Context, name, parentID string) (string, error) {
	children, err := r.api.ListFolderChildren(ctx, parentID)
	if err != nil {
		r.logger.Error().Str(logger.CategoryField, logger.CategoryError).
			Str("parent_id", parentID).Err(err).Msg("failed to list folder children")
		return "", fmt.Errorf("list children of %s: %w", parentID, err)
	}

	titles := make([]string, 0, len(children))
	for _, child := range children {
		titles = append(titles, child.Title)
	}
	r.logger.Debug().Str(logger.CategoryField, logger.CategoryDiscovery).
		Str("parent_id", parentID).Strs("children", titles).Msg("folders under parent")

	for _, child := range children {
		// A match without an id cannot be addressed; treat it as absent.
		if child.Title == name && child.ID != "" {
			r.logger.Info().Str(logger.CategoryField, logger.CategoryFound).
				Str("folder", name).Str("id", child.ID.String()).Msg("folder exists")
			return child.ID.String(), nil
		}
	}

	id, err := r.api.CreateFolder(ctx, name, parentID)
	if err != nil {
		r.logger.Error().Str(logger.CategoryField, logger.CategoryError).
			Str("folder", name).Str("parent_id", parentID).Err(err).Msg("failed to create folder")
		return "", fmt.Errorf("create folder %q: %w", name, err)
	}

	r.logger.Info().Str(logger.CategoryField, logger.CategoryCreate).
		Str("folder", name).Str("id", id).Msg("folder created")
	return id, nil
}
