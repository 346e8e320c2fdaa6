// Package fakeconfluence provides a fake Confluence REST server for testing purposes.
// It keeps folders, pages and templates in memory and serves the handful of
// endpoints the worklog uses, over a real HTTP listener from net/http/httptest.
//
// To flexibly inject failures, you can configure stub responses that match a route
// (and optionally the request itself) and reply with a fixed status and body
// instead of touching the in-memory state.
package fakeconfluence

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

const (
	// V2Path is the path prefix of the v2 API served by the fake.
	V2Path = "/wiki/api/v2"
	// V1Path is the path prefix of the v1 API served by the fake.
	V1Path = "/wiki/rest/api"
)

// Route identifies one of the endpoints served by the fake.
type Route string

const (
	RouteListFolder   Route = "GET /folders/{id}"
	RouteCreateFolder Route = "POST /folders"
	RouteCreatePage   Route = "POST /pages"
	RouteGetTemplate  Route = "GET /template/{id}"
	routeUnknown      Route = ""
)

// RequestMatcher defines criteria for matching incoming requests.
type RequestMatcher struct {
	// Route is the endpoint to match
	Route Route
	// Matcher is an optional function to match based on the decoded JSON body
	// (nil for GET requests) and the path id, if the route has one.
	// If nil, only the route is used for matching.
	Matcher func(id string, body map[string]any) bool
}

// StubResponse defines a pre-configured reply for matching requests.
type StubResponse struct {
	Matcher    RequestMatcher
	StatusCode int
	Body       string
	// Times limits how many requests the stub answers; zero means unlimited.
	Times int

	used int
}

// Node is a folder or page held by the fake.
type Node struct {
	ID       string
	Type     string
	Title    string
	ParentID string
	SpaceID  string
	// Body, Status, Subtype and Position are only set for pages.
	Body     string
	Status   string
	Subtype  string
	Position int
}

// Server is a fake Confluence server with in-memory state and stub responses.
type Server struct {
	mu        sync.Mutex
	server    *httptest.Server
	nodes     map[string]*Node
	order     []string
	templates map[string]string
	stubs     []*StubResponse
	calls     map[Route]int
	idCounter int

	// User and Token, when set, are required as HTTP basic auth credentials.
	User  string
	Token string
}

// NewServer creates a fake server. Call Start before use and Close afterwards.
func NewServer() *Server {
	return &Server{
		nodes:     make(map[string]*Node),
		templates: make(map[string]string),
		calls:     make(map[Route]int),
		idCounter: 1000,
	}
}

// Start begins serving on a random local port.
func (s *Server) Start() {
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
}

func (s *Server) Close() {
	if s.server != nil {
		s.server.Close()
	}
}

// BaseURL is the v2 API root, suitable for BASE_URL.
func (s *Server) BaseURL() string {
	return s.server.URL + V2Path
}

// BaseURLV1 is the v1 API root, suitable for BASE_URL_V1.
func (s *Server) BaseURLV1() string {
	return s.server.URL + V1Path
}

// AddFolder seeds a folder. An empty parentID makes it a root.
func (s *Server) AddFolder(id, title, parentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(&Node{ID: id, Type: "folder", Title: title, ParentID: parentID})
}

// AddPage seeds a page under parentID.
func (s *Server) AddPage(id, title, parentID, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(&Node{ID: id, Type: "page", Title: title, ParentID: parentID, Body: body, Status: "current"})
}

// AddTemplate seeds a template body.
func (s *Server) AddTemplate(id, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[id] = body
}

// AddStubResponse adds a stub response configuration to the server.
// Stub responses are matched in the order they were added.
func (s *Server) AddStubResponse(stub StubResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = append(s.stubs, &stub)
}

// Calls returns how many requests hit route, stubbed or not.
func (s *Server) Calls(route Route) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Children returns the nodes directly under parentID in creation order.
func (s *Server) Children(parentID string) []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.childrenLocked(parentID)
}

// Find returns the child of parentID with the given title and type.
func (s *Server) Find(typ, title, parentID string) (Node, bool) {
	for _, n := range s.Children(parentID) {
		if n.Type == typ && n.Title == title {
			return n, true
		}
	}
	return Node{}, false
}

// Pages returns every page in creation order.
func (s *Server) Pages() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pages []Node
	for _, id := range s.order {
		if n := s.nodes[id]; n.Type == "page" {
			pages = append(pages, *n)
		}
	}
	return pages
}

func (s *Server) putLocked(n *Node) {
	if _, ok := s.nodes[n.ID]; !ok {
		s.order = append(s.order, n.ID)
	}
	s.nodes[n.ID] = n
}

func (s *Server) childrenLocked(parentID string) []Node {
	var children []Node
	for _, id := range s.order {
		if n := s.nodes[id]; n.ParentID == parentID {
			children = append(children, *n)
		}
	}
	return children
}

func (s *Server) nextIDLocked() string {
	s.idCounter++
	return fmt.Sprintf("%d", s.idCounter)
}

func routeOf(r *http.Request) (Route, string) {
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, V2Path+"/"):
		rest := strings.TrimPrefix(path, V2Path+"/")
		switch {
		case r.Method == http.MethodPost && rest == "folders":
			return RouteCreateFolder, ""
		case r.Method == http.MethodPost && rest == "pages":
			return RouteCreatePage, ""
		case r.Method == http.MethodGet && strings.HasPrefix(rest, "folders/"):
			return RouteListFolder, strings.TrimPrefix(rest, "folders/")
		}
	case strings.HasPrefix(path, V1Path+"/template/") && r.Method == http.MethodGet:
		return RouteGetTemplate, strings.TrimPrefix(path, V1Path+"/template/")
	}
	return routeUnknown, ""
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	route, id := routeOf(r)

	var body map[string]any
	if r.Method == http.MethodPost {
		raw, err := io.ReadAll(r.Body)
		if err != nil || json.Unmarshal(raw, &body) != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid JSON body"})
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[route]++

	if s.User != "" {
		user, token, ok := r.BasicAuth()
		if !ok || user != s.User || token != s.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "unauthorized"})
			return
		}
	}

	if stub := s.matchStubLocked(route, id, body); stub != nil {
		w.WriteHeader(stub.StatusCode)
		_, _ = io.WriteString(w, stub.Body)
		return
	}

	switch route {
	case RouteListFolder:
		s.listFolderLocked(w, id)
	case RouteCreateFolder:
		s.createFolderLocked(w, body)
	case RouteCreatePage:
		s.createPageLocked(w, body)
	case RouteGetTemplate:
		s.getTemplateLocked(w, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "no such endpoint"})
	}
}

func (s *Server) matchStubLocked(route Route, id string, body map[string]any) *StubResponse {
	for _, stub := range s.stubs {
		if stub.Matcher.Route != route {
			continue
		}
		if stub.Times > 0 && stub.used >= stub.Times {
			continue
		}
		if stub.Matcher.Matcher != nil && !stub.Matcher.Matcher(id, body) {
			continue
		}
		stub.used++
		return stub
	}
	return nil
}

func (s *Server) listFolderLocked(w http.ResponseWriter, id string) {
	folder, ok := s.nodes[id]
	if !ok || folder.Type != "folder" {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "folder not found"})
		return
	}

	results := []map[string]any{}
	for _, child := range s.childrenLocked(id) {
		results = append(results, map[string]any{"id": child.ID, "title": child.Title, "type": child.Type})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":             folder.ID,
		"title":          folder.Title,
		"directChildren": map[string]any{"results": results},
	})
}

func (s *Server) createFolderLocked(w http.ResponseWriter, body map[string]any) {
	parentID, _ := body["parentId"].(string)
	title, _ := body["title"].(string)
	spaceID, _ := body["spaceId"].(string)
	if _, ok := s.nodes[parentID]; !ok || title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid parent or title"})
		return
	}

	n := &Node{ID: s.nextIDLocked(), Type: "folder", Title: title, ParentID: parentID, SpaceID: spaceID}
	s.putLocked(n)
	writeJSON(w, http.StatusOK, map[string]any{"id": n.ID, "title": n.Title, "parentId": n.ParentID})
}

func (s *Server) createPageLocked(w http.ResponseWriter, body map[string]any) {
	parentID, _ := body["parentId"].(string)
	title, _ := body["title"].(string)
	spaceID, _ := body["spaceId"].(string)
	status, _ := body["status"].(string)
	subtype, _ := body["subtype"].(string)
	position, _ := body["position"].(float64)
	var value string
	if b, ok := body["body"].(map[string]any); ok {
		value, _ = b["value"].(string)
	}

	if _, ok := s.nodes[parentID]; !ok || title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid parent or title"})
		return
	}
	for _, child := range s.childrenLocked(parentID) {
		if child.Type == "page" && child.Title == title {
			writeJSON(w, http.StatusConflict, map[string]any{"message": "A page with this title already exists"})
			return
		}
	}

	n := &Node{
		ID:       s.nextIDLocked(),
		Type:     "page",
		Title:    title,
		ParentID: parentID,
		SpaceID:  spaceID,
		Body:     value,
		Status:   status,
		Subtype:  subtype,
		Position: int(position),
	}
	s.putLocked(n)
	writeJSON(w, http.StatusOK, map[string]any{"id": n.ID, "title": n.Title})
}

func (s *Server) getTemplateLocked(w http.ResponseWriter, id string) {
	body, ok := s.templates[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "template not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"templateId": id,
		"name":       "worklog",
		"body": map[string]any{
			"storage": map[string]any{"value": body, "representation": "storage"},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
