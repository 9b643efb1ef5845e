package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/logger"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// loadTreeRequest is the body of POST /tree/load.
type loadTreeRequest struct {
	SpaceKey   string `json:"space_key" binding:"required"`
	RootPageID string `json:"root_page_id"`
}

// treeResponse describes the tree loaded into a session.
type treeResponse struct {
	SpaceKey   string                  `json:"space_key"`
	RootPageID string                  `json:"root_page_id,omitempty"`
	PageCount  int                     `json:"page_count"`
	LoadedAt   time.Time               `json:"loaded_at"`
	Tree       []domain.SelectableNode `json:"tree"`
}

// cloneRequest is the body of POST /clone.
type cloneRequest struct {
	PageIDs        []string `json:"page_ids" binding:"required,min=1"`
	TargetSpace    string   `json:"target_space" binding:"required"`
	TargetParentID string   `json:"target_parent_id" binding:"required"`
	Pattern        string   `json:"pattern"`
	Replacement    string   `json:"replacement"`
}

// cloneResponse is the result of a clone run.
type cloneResponse struct {
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Run     *domain.RunReport `json:"run"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleLoadTree(c *gin.Context) {
	var req loadTreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	state, err := s.ports.Tree.Load(c, req.SpaceKey, req.RootPageID)
	if err != nil {
		abortErr(c, err)
		return
	}

	if err := s.ports.Sessions.SaveTree(c, sessionID(c), state); err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusOK, newTreeResponse(state))
}

func (s *Server) handleGetTree(c *gin.Context) {
	state, err := s.ports.Sessions.GetTree(c, sessionID(c))
	if errors.Is(err, domain.ErrNotFound) {
		abort(c, http.StatusNotFound, domain.ErrTreeNotLoaded)
		return
	}
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, newTreeResponse(state))
}

// handleClone clones from the session's tree. Per-page failures are part
// of a 200 response; only fatal errors change the status.
func (s *Server) handleClone(c *gin.Context) {
	var req cloneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	state, err := s.ports.Sessions.GetTree(c, sessionID(c))
	if errors.Is(err, domain.ErrNotFound) {
		abortErr(c, domain.ErrTreeNotLoaded)
		return
	}
	if err != nil {
		abortErr(c, err)
		return
	}

	report, err := s.ports.Clone.Clone(c, state, domain.CloneRequest{
		SourceSpace:    state.SpaceKey,
		TargetSpace:    req.TargetSpace,
		TargetParentID: req.TargetParentID,
		Pattern:        req.Pattern,
		Replacement:    req.Replacement,
		Selection:      domain.NewSelection(req.PageIDs...),
	}, nil)
	if err != nil {
		if report != nil {
			c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error(), "run": report})
			return
		}
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusOK, cloneResponse{
		Created: report.Created(),
		Failed:  report.Failed(),
		Run:     report,
	})
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit := defaultRunLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			abort(c, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := s.ports.Runs.List(c, limit)
	if err != nil {
		abortErr(c, err)
		return
	}
	if runs == nil {
		runs = []domain.RunReport{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, err := s.ports.Runs.Get(c, c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handlePreview(c *gin.Context) {
	preview, err := s.ports.Pages.Preview(c, c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        preview.ID,
		"title":     preview.Title,
		"space_key": preview.SpaceKey,
		"markdown":  preview.Markdown,
	})
}

func newTreeResponse(state *domain.TreeState) treeResponse {
	tree := state.Selectable
	if tree == nil {
		tree = []domain.SelectableNode{}
	}
	return treeResponse{
		SpaceKey:   state.SpaceKey,
		RootPageID: state.RootPageID,
		PageCount:  state.PageCount,
		LoadedAt:   state.LoadedAt,
		Tree:       tree,
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrAuthInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrTreeNotLoaded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptySelection),
		errors.Is(err, domain.ErrInvalidPattern),
		errors.Is(err, domain.ErrInvalidReplacement):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortErr(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	abort(c, status, err)
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
