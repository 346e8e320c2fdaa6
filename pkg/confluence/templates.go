package confluence

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/worklogbot/worklog/pkg/constants"
)

// GetTemplate fetches a content template through the v1 API.
func (c *Client) GetTemplate(ctx context.Context, templateID string) (*Template, error) {
	endpoint := fmt.Sprintf("%s/template/%s", c.baseURLV1, url.PathEscape(templateID))

	var res Template
	if err := c.send(ctx, http.MethodGet, endpoint, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// TemplateBody returns the stored storage-format body of a template, unmodified.
func (c *Client) TemplateBody(ctx context.Context, templateID string) (string, error) {
	tmpl, err := c.GetTemplate(ctx, templateID)
	if err != nil {
		return "", err
	}
	if tmpl.Body.Storage.Value == nil {
		return "", fmt.Errorf("%w: template %s has no storage body", constants.ErrUnexpectedResponse, templateID)
	}
	return *tmpl.Body.Storage.Value, nil
}
