package confluence

import (
	"context"
	"fmt"
	"net/http"

	"github.com/worklogbot/worklog/pkg/constants"
)

// CreatePage creates a current, live page at position 0 under in.ParentID.
//
// A 409 means a page with the same title already exists under the parent;
// that is reported as created == false with a nil error.
func (c *Client) CreatePage(ctx context.Context, in PageInput) (pageID string, created bool, err error) {
	payload := createPageRequest{
		SpaceID:  c.spaceID,
		Title:    in.Title,
		ParentID: in.ParentID,
		Status:   constants.PageStatus,
		Position: constants.PagePosition,
		Body: pageBody{
			Representation: constants.StorageRepresentation,
			Value:          in.Body,
		},
		Subtype: constants.PageSubtype,
	}

	var res createdResource
	err = c.send(ctx, http.MethodPost, c.baseURL+"/pages", payload, &res)
	if IsConflict(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if res.ID == "" {
		return "", false, fmt.Errorf("%w: page %q created without an id", constants.ErrUnexpectedResponse, in.Title)
	}
	return res.ID.String(), true, nil
}
