package domain

// PageRef is a reference to another page, used for ancestors.
type PageRef struct {
	ID string
}

// Page is a page record fetched from the content gateway.
// Body is the storage-format markup and is empty for summaries.
type Page struct {
	ID           string
	Title        string
	Body         string
	SpaceKey     string
	Version      int
	Ancestors    []PageRef
	Restrictions *Restrictions
}

// ParentID returns the id of the immediate parent (the last ancestor),
// or an empty string when the page has no ancestors.
func (p *Page) ParentID() string {
	if len(p.Ancestors) == 0 {
		return ""
	}
	return p.Ancestors[len(p.Ancestors)-1].ID
}

// RestrictionOperation is the kind of permission a restriction applies to.
type RestrictionOperation string

const (
	// RestrictionRead limits who can view a page.
	RestrictionRead RestrictionOperation = "read"

	// RestrictionUpdate limits who can edit a page.
	RestrictionUpdate RestrictionOperation = "update"
)

// RestrictionOperations returns the operations re-applied on cloned pages, in order.
func RestrictionOperations() []RestrictionOperation {
	return []RestrictionOperation{RestrictionRead, RestrictionUpdate}
}

// User is a restricted user principal.
type User struct {
	AccountID string
}

// Group is a restricted group principal.
type Group struct {
	Name string
}

// Principals lists the users and groups of one restriction kind.
type Principals struct {
	Users  []User
	Groups []Group
}

// Empty reports whether no usable principal is present.
func (p Principals) Empty() bool {
	return len(p.Users) == 0 && len(p.Groups) == 0
}

// Restrictions holds the read and update restrictions of a page.
type Restrictions struct {
	Read   Principals
	Update Principals
}

// For returns the principals of the given operation.
func (r *Restrictions) For(op RestrictionOperation) Principals {
	if r == nil {
		return Principals{}
	}
	switch op {
	case RestrictionRead:
		return r.Read
	case RestrictionUpdate:
		return r.Update
	default:
		return Principals{}
	}
}
