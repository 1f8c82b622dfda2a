package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mealprep/internal/cookbook"
	"mealprep/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// Loader returns the current cookbook.
type Loader func(ctx context.Context) (*cookbook.Book, error)

// RecipeSummary is the list form of a recipe in the JSON API.
type RecipeSummary struct {
	Slug                string  `json:"slug"`
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	TotalWeight         float64 `json:"total_weight_grams"`
	TotalProtein        float64 `json:"total_protein_grams"`
	TotalCalories       float64 `json:"total_calories_kcal"`
	ProteinPer100       float64 `json:"protein_per_100g"`
	CaloriesPer100      float64 `json:"calories_per_100g"`
	UnresolvedReference int     `json:"unresolved_references"`
}

type handlers struct {
	load   Loader
	logger *slog.Logger
}

// NewServer builds the gin engine serving the HTML pages and JSON API.
func NewServer(load Loader, logger *slog.Logger) *gin.Engine {
	logger = logging.NewComponentLogger(logger, "web")
	h := &handlers{load: load, logger: logger}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestID(), requestLogger(logger), recovery(logger))

	engine.GET("/", h.index)
	engine.GET("/recipes/:slug", h.recipe)
	engine.GET("/api/recipes", h.apiList)
	engine.GET("/api/recipes/:slug", h.apiRecipe)
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return engine
}

// Serve runs handler on bind until ctx is canceled.
func Serve(ctx context.Context, bind string, handler http.Handler, logger *slog.Logger) error {
	logger = logging.NewComponentLogger(logger, "web")
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("listen %s: %w", bind, err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("web server listening", logging.String("address", listener.Addr().String()))
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (h *handlers) index(c *gin.Context) {
	book, ok := h.book(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := RenderIndex(&buf, book, ServerLinks); err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *handlers) recipe(c *gin.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := RenderRecipe(&buf, entry, ServerLinks); err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *handlers) apiList(c *gin.Context) {
	book, ok := h.book(c)
	if !ok {
		return
	}
	out := make([]RecipeSummary, 0, book.Len())
	for _, entry := range book.Recipes {
		out = append(out, Summarize(entry))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": out})
}

func (h *handlers) apiRecipe(c *gin.Context) {
	entry, ok := h.entry(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Summarize converts an entry into its API list form.
func Summarize(entry cookbook.Entry) RecipeSummary {
	n := entry.Nutrition
	return RecipeSummary{
		Slug:                entry.Slug,
		Name:                entry.Recipe.Name,
		Category:            entry.Category,
		TotalWeight:         n.Weight,
		TotalProtein:        n.Protein,
		TotalCalories:       n.Calories,
		ProteinPer100:       n.ProteinPer100,
		CaloriesPer100:      n.CaloriesPer100,
		UnresolvedReference: len(n.Unresolved),
	}
}

func (h *handlers) book(c *gin.Context) (*cookbook.Book, bool) {
	book, err := h.load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return book, true
}

func (h *handlers) entry(c *gin.Context) (cookbook.Entry, bool) {
	book, ok := h.book(c)
	if !ok {
		return cookbook.Entry{}, false
	}
	slug := strings.TrimSpace(c.Param("slug"))
	entry, found := book.Find(slug)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found", "slug": slug})
		return cookbook.Entry{}, false
	}
	return entry, true
}

func (h *handlers) fail(c *gin.Context, err error) {
	logging.WithContext(c.Request.Context(), h.logger).Error("request failed",
		logging.String("route", c.Request.URL.Path),
		logging.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []logging.Attr{
			logging.Int("status", status),
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Duration("latency", time.Since(start)),
		}
		log := logging.WithContext(c.Request.Context(), logger)
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request completed", logging.Args(attrs...)...)
		case status >= http.StatusBadRequest:
			log.Warn("request completed", logging.Args(attrs...)...)
		default:
			log.Debug("request completed", logging.Args(attrs...)...)
		}
	}
}

func recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logging.WithContext(c.Request.Context(), logger).Error("panic recovered",
					logging.Any("panic", recovered),
					logging.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
