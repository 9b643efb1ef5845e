// Package confluence implements the content gateway for Confluence.
//
// The gateway talks to the REST API v1 (/rest/api/content) and exposes the
// handful of operations the clone core needs: fetching a page with body,
// ancestors and restrictions; listing the pages of a space or of a subtree;
// copying and creating pages; renaming a page; and writing restrictions.
//
// # Authentication
//
// Two authentication methods are supported:
//
//   - Basic: account email plus API token (Confluence Cloud).
//   - Bearer: personal access token (Confluence Data Center), sent through
//     an oauth2 static token source.
//
// Every request also carries X-Atlassian-Token: no-check.
//
// # Listing
//
// Page searches use CQL with a page size of 100 and follow _links.next until
// the result set is exhausted. Listing under an ancestor appends the ancestor
// page itself so the subtree has a root.
//
// # Rate Limiting
//
// Requests are throttled proactively with a token bucket. A 429 response is
// returned as a [RateLimitError] and the Retry-After period is honoured
// before the next request. Nothing is retried.
//
// # Error Handling
//
// Any unexpected status is returned as an [APIError]. A 404 matches
// [domain.ErrNotFound] and a 401 matches [domain.ErrAuthInvalid] with errors.Is.
package confluence
