// Package api serves the tentcards backend over HTTP JSON
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/repositories/blobstore"
	"github.com/KirkDiggler/tentcards/internal/repositories/usage"
	"github.com/KirkDiggler/tentcards/internal/services/monsterimage"
	"github.com/KirkDiggler/tentcards/internal/services/monstersearch"
)

// Pinger reports whether a dependency is reachable
type Pinger func(ctx context.Context) error

// HandlerConfig holds dependencies for the HTTP handler
type HandlerConfig struct {
	Images monsterimage.Service
	Search monstersearch.Service
	Usage  usage.Repository
	Blobs  blobstore.Repository
	// Checks are run by the health route; any failure reports unavailable
	Checks map[string]Pinger
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Images == nil {
		vb.RequiredField("Images")
	}
	if c.Search == nil {
		vb.RequiredField("Search")
	}
	if c.Usage == nil {
		vb.RequiredField("Usage")
	}
	if c.Blobs == nil {
		vb.RequiredField("Blobs")
	}

	return vb.Build()
}

// Handler implements the backend routes
type Handler struct {
	images monsterimage.Service
	search monstersearch.Service
	usage  usage.Repository
	blobs  blobstore.Repository
	checks map[string]Pinger
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		images: cfg.Images,
		search: cfg.Search,
		usage:  cfg.Usage,
		blobs:  cfg.Blobs,
		checks: cfg.Checks,
	}, nil
}

// RegisterRoutes mounts the JSON API under /api and the blob route under the
// blob store's public prefix
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/generate-monster-image", h.generate)
	api.POST("/regenerate-monster-image", h.regenerate)
	api.POST("/save-monster-image", h.save)
	api.GET("/monster-images", h.snapshot)
	api.GET("/monsters", h.listMonsters)
	api.GET("/monsters/:key", h.getMonster)
	api.POST("/analytics", h.recordEvent)
	api.GET("/analytics", h.listEvents)
	api.GET("/health", h.health)

	prefix := strings.TrimSuffix(h.blobs.URLPrefix(), "/")
	r.GET(prefix+"/*file", h.serveImage)
	r.HEAD(prefix+"/*file", h.serveImage)
}

type monsterNameRequest struct {
	MonsterName string `json:"monsterName"`
}

type saveRequest struct {
	MonsterName string `json:"monsterName"`
	ImageURL    string `json:"imageUrl"`
}

type eventRequest struct {
	Event string `json:"event"`
}

func (h *Handler) generate(c *gin.Context) {
	var req monsterNameRequest
	if !bind(c, &req) {
		return
	}

	out, err := h.images.Generate(c.Request.Context(), &monsterimage.GenerateInput{MonsterName: req.MonsterName})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entities.GeneratedImage{URL: out.URL, Cached: out.Cached})
}

func (h *Handler) regenerate(c *gin.Context) {
	var req monsterNameRequest
	if !bind(c, &req) {
		return
	}

	out, err := h.images.Regenerate(c.Request.Context(), &monsterimage.RegenerateInput{MonsterName: req.MonsterName})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entities.GeneratedImage{URL: out.URL})
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if !bind(c, &req) {
		return
	}

	out, err := h.images.Save(c.Request.Context(), &monsterimage.SaveInput{
		MonsterName: req.MonsterName,
		ImageURL:    req.ImageURL,
		Host:        c.Request.Host,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entities.SavedImage{Success: true, Path: out.Path})
}

func (h *Handler) snapshot(c *gin.Context) {
	out, err := h.images.Snapshot(c.Request.Context(), &monsterimage.SnapshotInput{})
	if err != nil {
		writeError(c, err)
		return
	}
	images := out.Images
	if images == nil {
		images = map[string]string{}
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *Handler) listMonsters(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, errors.InvalidArgumentf("limit %q is not a number", raw))
			return
		}
		limit = n
	}

	out, err := h.search.Search(c.Request.Context(), &monstersearch.SearchInput{Query: c.Query("q"), Limit: limit})
	if err != nil {
		writeError(c, err)
		return
	}

	monsters := make([]entities.Monster, 0, len(out.Monsters))
	for _, m := range out.Monsters {
		monsters = append(monsters, *m)
	}
	c.JSON(http.StatusOK, gin.H{"monsters": monsters, "total": out.Total})
}

func (h *Handler) getMonster(c *gin.Context) {
	out, err := h.search.Get(c.Request.Context(), &monstersearch.GetInput{Key: c.Param("key")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"monster": out.Monster})
}

func (h *Handler) recordEvent(c *gin.Context) {
	var req eventRequest
	if !bind(c, &req) {
		return
	}

	out, err := h.usage.Increment(c.Request.Context(), usage.IncrementInput{Event: req.Event})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": out.Count})
}

func (h *Handler) listEvents(c *gin.Context) {
	out, err := h.usage.List(c.Request.Context(), usage.ListInput{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": out.Counts})
}

func (h *Handler) health(c *gin.Context) {
	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			slog.Warn("Health check failed", "check", name, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": name + " is unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) serveImage(c *gin.Context) {
	out, err := h.blobs.Get(c.Request.Context(), blobstore.GetInput{Path: c.Request.URL.Path})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, errors.WrapWithCode(err, errors.CodeInvalidArgument, "request body must be JSON"))
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	status, body := errors.HTTPResponse(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, body)
}
