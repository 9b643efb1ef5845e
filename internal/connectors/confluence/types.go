package confluence

import (
	"encoding/json"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

// content is the REST representation of a page.
type content struct {
	ID           string          `json:"id"`
	Type         string          `json:"type,omitempty"`
	Title        string          `json:"title"`
	Space        *spaceRef       `json:"space,omitempty"`
	Body         *contentBody    `json:"body,omitempty"`
	Ancestors    []ancestor      `json:"ancestors,omitempty"`
	Version      *version        `json:"version,omitempty"`
	Restrictions json.RawMessage `json:"restrictions,omitempty"`
}

type spaceRef struct {
	Key string `json:"key"`
}

type ancestor struct {
	ID string `json:"id"`
}

type version struct {
	Number int `json:"number"`
}

type contentBody struct {
	Storage *storage `json:"storage,omitempty"`
}

type storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// searchResponse is one page of a CQL content search.
type searchResponse struct {
	Results []content `json:"results"`
	Links   struct {
		Next string `json:"next"`
	} `json:"_links"`
}

// createRequest is the body of POST /rest/api/content.
type createRequest struct {
	Type      string      `json:"type"`
	Title     string      `json:"title"`
	Ancestors []ancestor  `json:"ancestors"`
	Space     spaceRef    `json:"space"`
	Body      contentBody `json:"body"`
}

// copyRequest is the body of POST /rest/api/content/{id}/copy.
type copyRequest struct {
	Destination     copyDestination `json:"destination"`
	CopyAttachments bool            `json:"copyAttachments"`
	CopyPermissions bool            `json:"copyPermissions"`
	CopyProperties  bool            `json:"copyProperties"`
	CopyLabels      bool            `json:"copyLabels"`
	TitleOptions    *titleOptions   `json:"titleOptions,omitempty"`
}

type copyDestination struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type titleOptions struct {
	Replace string `json:"replace"`
}

// updateRequest is the body of PUT /rest/api/content/{id}.
type updateRequest struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Title   string  `json:"title"`
	Version version `json:"version"`
}

// toDomain converts a REST page to a domain page.
func (c *content) toDomain() *domain.Page {
	p := &domain.Page{
		ID:           c.ID,
		Title:        c.Title,
		Restrictions: decodeRestrictions(c.Restrictions),
	}
	if c.Space != nil {
		p.SpaceKey = c.Space.Key
	}
	if c.Body != nil && c.Body.Storage != nil {
		p.Body = c.Body.Storage.Value
	}
	if c.Version != nil {
		p.Version = c.Version.Number
	}
	for _, a := range c.Ancestors {
		p.Ancestors = append(p.Ancestors, domain.PageRef{ID: a.ID})
	}
	return p
}
