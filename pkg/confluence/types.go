package confluence

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque Confluence identifier. The v2 API sends strings,
// some v1 payloads send numbers; both decode to the same value.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("confluence id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Folder is a direct child entry as listed under a parent folder.
type Folder struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
}

type folderWithChildren struct {
	ID             ID     `json:"id"`
	Title          string `json:"title"`
	DirectChildren struct {
		Results []Folder `json:"results"`
	} `json:"directChildren"`
}

type createFolderRequest struct {
	SpaceID  string `json:"spaceId"`
	Title    string `json:"title"`
	ParentID string `json:"parentId"`
}

// PageInput describes a worklog page to create.
type PageInput struct {
	Title    string
	ParentID string
	// Body is the storage-format payload, sent verbatim.
	Body string
}

type pageBody struct {
	Representation string `json:"representation"`
	Value          string `json:"value"`
}

type createPageRequest struct {
	SpaceID  string   `json:"spaceId"`
	Title    string   `json:"title"`
	ParentID string   `json:"parentId"`
	Status   string   `json:"status"`
	Position int      `json:"position"`
	Body     pageBody `json:"body"`
	Subtype  string   `json:"subtype"`
}

type createdResource struct {
	ID ID `json:"id"`
}

// Template is the subset of a v1 content template the worklog needs.
type Template struct {
	TemplateID ID     `json:"templateId"`
	Name       string `json:"name"`
	Body       struct {
		Storage struct {
			// Value is nil when the response carries no stored body at all.
			Value          *string `json:"value"`
			Representation string  `json:"representation"`
		} `json:"storage"`
	} `json:"body"`
}
