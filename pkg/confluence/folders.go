package confluence

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/worklogbot/worklog/pkg/constants"
)

// ListFolderChildren returns the direct children of the folder parentID.
func (c *Client) ListFolderChildren(ctx context.Context, parentID string) ([]Folder, error) {
	endpoint := fmt.Sprintf("%s/folders/%s?include-direct-children=true", c.baseURL, url.PathEscape(parentID))

	var res folderWithChildren
	if err := c.send(ctx, http.MethodGet, endpoint, nil, &res); err != nil {
		return nil, err
	}
	return res.DirectChildren.Results, nil
}

// CreateFolder creates a folder titled title under parentID in the client's space
// and returns its ID.
func (c *Client) CreateFolder(ctx context.Context, title, parentID string) (string, error) {
	payload := createFolderRequest{
		SpaceID:  c.spaceID,
		Title:    title,
		ParentID: parentID,
	}

	var res createdResource
	if err := c.send(ctx, http.MethodPost, c.baseURL+"/folders", payload, &res); err != nil {
		return "", err
	}
	if res.ID == "" {
		return "", fmt.Errorf("%w: folder %q created without an id", constants.ErrUnexpectedResponse, title)
	}
	return res.ID.String(), nil
}
