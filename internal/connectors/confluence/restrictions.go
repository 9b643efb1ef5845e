package confluence

import (
	"encoding/json"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

// restrictionUser is a user principal in a restriction write.
type restrictionUser struct {
	Type      string `json:"type"`
	AccountID string `json:"accountId"`
}

// restrictionGroup is a group principal in a restriction write.
type restrictionGroup struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// restrictionRequest is the body of PUT .../restriction/byOperation/{op}.
type restrictionRequest struct {
	User  []restrictionUser  `json:"user"`
	Group []restrictionGroup `json:"group"`
}

func newRestrictionRequest(p domain.Principals) restrictionRequest {
	req := restrictionRequest{
		User:  make([]restrictionUser, 0, len(p.Users)),
		Group: make([]restrictionGroup, 0, len(p.Groups)),
	}
	for _, u := range p.Users {
		req.User = append(req.User, restrictionUser{Type: "known", AccountID: u.AccountID})
	}
	for _, g := range p.Groups {
		req.Group = append(req.Group, restrictionGroup{Type: "group", Name: g.Name})
	}
	return req
}

// decodeRestrictions reads the restrictions block of a page response.
// It accepts each operation with or without an inner "restrictions" wrapper,
// and principal lists either bare or under "results". Anything else reads
// as no principals. A missing block returns nil.
func decodeRestrictions(raw json.RawMessage) *domain.Restrictions {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var ops map[string]json.RawMessage
	if err := json.Unmarshal(raw, &ops); err != nil {
		return &domain.Restrictions{}
	}

	return &domain.Restrictions{
		Read:   decodePrincipals(ops[string(domain.RestrictionRead)]),
		Update: decodePrincipals(ops[string(domain.RestrictionUpdate)]),
	}
}

func decodePrincipals(raw json.RawMessage) domain.Principals {
	var details map[string]json.RawMessage
	if err := json.Unmarshal(raw, &details); err != nil || details == nil {
		return domain.Principals{}
	}
	if inner, ok := details["restrictions"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(inner, &nested); err != nil {
			return domain.Principals{}
		}
		details = nested
	}

	var p domain.Principals
	for _, item := range principalItems(details["user"]) {
		var u struct {
			AccountID string `json:"accountId"`
		}
		if json.Unmarshal(item, &u) == nil && u.AccountID != "" {
			p.Users = append(p.Users, domain.User{AccountID: u.AccountID})
		}
	}
	for _, item := range principalItems(details["group"]) {
		var g struct {
			Name string `json:"name"`
		}
		if json.Unmarshal(item, &g) == nil && g.Name != "" {
			p.Groups = append(p.Groups, domain.Group{Name: g.Name})
		}
	}
	return p
}

// principalItems returns the entries of a bare list or of {"results": [...]}.
func principalItems(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var paged struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &paged); err == nil {
		return paged.Results
	}
	return nil
}
