package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/worklogbot/worklog/pkg/constants"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewTestClient returns *http.Client with Transport replaced to avoid making real calls
func NewTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		// Must be set to non-nil value or it panics
		Header: make(http.Header),
	}
}

type ClientTestSuite struct {
	suite.Suite
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) newClient(fn RoundTripFunc) *Client {
	c := NewClient(NewClientParams{
		BaseURL:   "https://test.atlassian.net/wiki/api/v2/",
		BaseURLV1: "https://test.atlassian.net/wiki/rest/api",
		SpaceID:   "12345",
		User:      "test@example.com",
		APIToken:  "test_token",
		Logger:    zerolog.Nop(),
	})
	return c.SetHTTPClient(NewTestClient(fn))
}

func (s *ClientTestSuite) decodeBody(req *http.Request, v any) {
	raw, err := io.ReadAll(req.Body)
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal(raw, v))
}

func (s *ClientTestSuite) TestListFolderChildren() {
	c := s.newClient(func(req *http.Request) *http.Response {
		s.Equal(http.MethodGet, req.Method)
		s.Equal("https://test.atlassian.net/wiki/api/v2/folders/111213?include-direct-children=true", req.URL.String())
		s.Equal("application/json", req.Header.Get("Accept"))

		user, pass, ok := req.BasicAuth()
		s.True(ok)
		s.Equal("test@example.com", user)
		s.Equal("test_token", pass)

		return jsonResponse(http.StatusOK, `{"id":"111213","directChildren":{"results":[
			{"id":"1","title":"other_folder","type":"folder"},
			{"id":123,"title":"target_folder","type":"folder"}]}}`)
	})

	children, err := c.ListFolderChildren(context.Background(), "111213")
	s.Require().NoError(err)
	s.Require().Len(children, 2)
	s.Equal(ID("1"), children[0].ID)
	s.Equal("target_folder", children[1].Title)
	s.Equal(ID("123"), children[1].ID)
}

func (s *ClientTestSuite) TestListFolderChildren_NoChildren() {
	c := s.newClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `{"id":"111213"}`)
	})

	children, err := c.ListFolderChildren(context.Background(), "111213")
	s.Require().NoError(err)
	s.Empty(children)
}

func (s *ClientTestSuite) TestListFolderChildren_Error() {
	c := s.newClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusNotFound, `{"message":"not found"}`)
	})

	_, err := c.ListFolderChildren(context.Background(), "missing")
	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusNotFound, apiErr.StatusCode)
	s.Contains(apiErr.Body, "not found")
	s.Contains(err.Error(), "status 404")
}

func (s *ClientTestSuite) TestCreateFolder() {
	for _, status := range []int{http.StatusOK, http.StatusCreated} {
		c := s.newClient(func(req *http.Request) *http.Response {
			s.Equal(http.MethodPost, req.Method)
			s.Equal("https://test.atlassian.net/wiki/api/v2/folders", req.URL.String())
			s.Equal("application/json", req.Header.Get("Content-Type"))

			var payload map[string]any
			s.decodeBody(req, &payload)
			s.Equal(map[string]any{
				"spaceId":  "12345",
				"title":    "2025_워크로그",
				"parentId": "111213",
			}, payload)

			return jsonResponse(status, `{"id":"new_folder_id"}`)
		})

		id, err := c.CreateFolder(context.Background(), "2025_워크로그", "111213")
		s.Require().NoError(err)
		s.Equal("new_folder_id", id)
	}
}

func (s *ClientTestSuite) TestCreateFolder_Fail() {
	c := s.newClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusInternalServerError, "boom")
	})

	_, err := c.CreateFolder(context.Background(), "fail_folder", "parent")
	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusInternalServerError, apiErr.StatusCode)
	s.Equal("boom", apiErr.Body)
	s.False(apiErr.IsConflict())
}

func (s *ClientTestSuite) TestCreateFolder_MissingID() {
	c := s.newClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusCreated, `{}`)
	})

	_, err := c.CreateFolder(context.Background(), "f", "parent")
	s.Require().ErrorIs(err, constants.ErrUnexpectedResponse)
}

func (s *ClientTestSuite) TestCreatePage() {
	c := s.newClient(func(req *http.Request) *http.Response {
		s.Equal(http.MethodPost, req.Method)
		s.Equal("https://test.atlassian.net/wiki/api/v2/pages", req.URL.String())

		var payload createPageRequest
		s.decodeBody(req, &payload)
		s.Equal(createPageRequest{
			SpaceID:  "12345",
			Title:    "06_12_워크로그",
			ParentID: "month_folder",
			Status:   "current",
			Position: 0,
			Body:     pageBody{Representation: "storage", Value: "<p>2025-06-12</p>"},
			Subtype:  "live",
		}, payload)

		return jsonResponse(http.StatusOK, `{"id":"new_page_id"}`)
	})

	id, created, err := c.CreatePage(context.Background(), PageInput{
		Title:    "06_12_워크로그",
		ParentID: "month_folder",
		Body:     "<p>2025-06-12</p>",
	})
	s.Require().NoError(err)
	s.True(created)
	s.Equal("new_page_id", id)
}

func (s *ClientTestSuite) TestCreatePage_AlreadyExists() {
	c := s.newClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusConflict, `{"errors":[{"title":"A page with this title already exists"}]}`)
	})

	id, created, err := c.CreatePage(context.Background(), PageInput{Title: "existing_page", ParentID: "parent", Body: "body"})
	s.Require().NoError(err)
	s.False(created)
	s.Empty(id)
}

func (s *ClientTestSuite) TestCreatePage_OtherErrors() {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError} {
		c := s.newClient(func(req *http.Request) *http.Response {
			return jsonResponse(status, "nope")
		})

		_, created, err := c.CreatePage(context.Background(), PageInput{Title: "t", ParentID: "p", Body: "b"})
		s.False(created)
		var apiErr *APIError
		s.Require().ErrorAs(err, &apiErr)
		s.Equal(status, apiErr.StatusCode)
	}
}

func (s *ClientTestSuite) TestTemplateBody() {
	c := s.newClient(func(req *http.Request) *http.Response {
		s.Equal(http.MethodGet, req.Method)
		s.Equal("https://test.atlassian.net/wiki/rest/api/template/67890", req.URL.String())
		s.Equal("application/json", req.Header.Get("Accept"))
		return jsonResponse(http.StatusOK, `{"templateId":67890,"name":"worklog","body":{"storage":{"value":"template_body_content","representation":"storage"}}}`)
	})

	body, err := c.TemplateBody(context.Background(), "67890")
	s.Require().NoError(err)
	s.Equal("template_body_content", body)
}

func (s *ClientTestSuite) TestTemplateBody_Error() {
	c := s.newClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusForbidden, "forbidden")
	})

	_, err := c.TemplateBody(context.Background(), "67890")
	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusForbidden, apiErr.StatusCode)
}

func (s *ClientTestSuite) TestTemplateBody_MissingBody() {
	for _, resp := range []string{
		`{"templateId":1,"name":"worklog"}`,
		`{"templateId":1,"body":{}}`,
		`{"templateId":1,"body":{"storage":{"representation":"storage"}}}`,
		`{"templateId":1,"body":{"storage":{"value":null}}}`,
	} {
		c := s.newClient(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, resp)
		})

		body, err := c.TemplateBody(context.Background(), "1")
		s.Require().ErrorIs(err, constants.ErrUnexpectedResponse, resp)
		s.Empty(body)
		s.Contains(err.Error(), "template 1")
	}
}

func (s *ClientTestSuite) TestTemplateBody_EmptyStoredBody() {
	c := s.newClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `{"templateId":1,"body":{"storage":{"value":"","representation":"storage"}}}`)
	})

	body, err := c.TemplateBody(context.Background(), "1")
	s.Require().NoError(err)
	s.Empty(body)
}

func (s *ClientTestSuite) TestInvalidJSON() {
	c := s.newClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `<html>`)
	})

	_, err := c.TemplateBody(context.Background(), "67890")
	s.Require().ErrorIs(err, constants.ErrUnexpectedResponse)
}

type failingTransport struct{ err error }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, f.err
}

func (s *ClientTestSuite) TestTransportError() {
	boom := errors.New("connection refused")
	c := s.newClient(nil).SetHTTPClient(&http.Client{Transport: failingTransport{err: boom}})

	_, err := c.ListFolderChildren(context.Background(), "111213")
	s.Require().ErrorIs(err, boom)
	var apiErr *APIError
	s.False(errors.As(err, &apiErr))
}

func (s *ClientTestSuite) TestIsConflict() {
	s.True(IsConflict(&APIError{StatusCode: http.StatusConflict}))
	s.False(IsConflict(&APIError{StatusCode: http.StatusBadRequest}))
	s.False(IsConflict(errors.New("plain")))
	s.False(IsConflict(nil))
}
