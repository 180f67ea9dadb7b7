package api

import (
	"errors"
	"io"
	"net/http"

	"exam-admin-console/internal/config"
	"exam-admin-console/internal/console"
	"exam-admin-console/internal/health"
	"exam-admin-console/internal/logger"
	"exam-admin-console/internal/session"
	errs "exam-admin-console/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler serves the console screens to the browser shell. All state lives
// in the screens; the handlers only translate HTTP into screen transitions.
type Handler struct {
	cfg      *config.Config
	sessions *session.Store
	screens  map[string]*console.Screen
	poller   *health.Poller
	log      zerolog.Logger
}

func NewHandler(
	cfg *config.Config,
	sessions *session.Store,
	screens map[string]*console.Screen,
	poller *health.Poller,
) *Handler {
	return &Handler{
		cfg:      cfg,
		sessions: sessions,
		screens:  screens,
		poller:   poller,
		log:      logger.Named("api"),
	}
}

func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.sessions.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if err := h.sessions.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Username atau password salah"})
			return
		}
		h.log.Error().Err(err).Msg("Login request failed")
		c.JSON(http.StatusBadGateway, gin.H{"message": "Gagal terhubung ke server."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": h.sessions.Token(),
		"user":         h.sessions.Profile(),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": h.sessions.Authenticated(),
		"loading":       h.sessions.Loading(),
		"user":          h.sessions.Profile(),
	})
}

func (h *Handler) HealthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.poller.Status())
}

func (h *Handler) screen(c *gin.Context) (*console.Screen, bool) {
	screen, ok := h.screens[c.Param("resource")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Halaman tidak ditemukan."})
		return nil, false
	}
	return screen, true
}

func (h *Handler) state(c *gin.Context, screen *console.Screen) {
	c.JSON(http.StatusOK, screen.State(c.Query("q"), c.Query("date")))
}

// Screen renders one resource screen. Every plain visit refetches from the
// remote service; cached=true serves the held snapshot instead.
func (h *Handler) Screen(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	if c.Query("cached") == "true" {
		screen.EnsureLoaded(c.Request.Context())
	} else {
		screen.Load(c.Request.Context())
	}
	h.state(c, screen)
}

func (h *Handler) ChangeField(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	for name, value := range fields {
		screen.Change(name, value)
	}
	h.state(c, screen)
}

func (h *Handler) BeginEdit(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	if err := screen.BeginEdit(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Data tidak ditemukan."})
		return
	}
	h.state(c, screen)
}

func (h *Handler) CancelEdit(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	screen.CancelEdit()
	h.state(c, screen)
}

func (h *Handler) Submit(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	err := screen.Submit(c.Request.Context())
	if errors.Is(err, errs.ErrSubmitInFlight) {
		c.JSON(http.StatusConflict, gin.H{"message": "Permintaan sebelumnya masih diproses."})
		return
	}
	// Required-field rejections and mutation outcomes are reported
	// through the screen notices.
	h.state(c, screen)
}

func (h *Handler) Delete(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	confirmed := c.Query("confirm") == "true"
	err := screen.Delete(c.Request.Context(), c.Param("id"), confirmed)
	if errors.Is(err, errs.ErrConfirmRequired) {
		c.JSON(http.StatusPreconditionRequired, gin.H{"message": screen.Resource().Texts.ConfirmPrompt})
		return
	}
	h.state(c, screen)
}

func (h *Handler) OpenImport(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	screen.OpenImport()
	h.state(c, screen)
}

func (h *Handler) CloseImport(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	screen.CloseImport()
	h.state(c, screen)
}

func (h *Handler) Import(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	spec := screen.Resource().Import
	if spec == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Halaman tidak ditemukan."})
		return
	}

	if target := c.PostForm(spec.TargetField); target != "" {
		screen.SetImportTarget(target)
	}

	var (
		filename string
		data     []byte
	)
	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		if data, err = io.ReadAll(file); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Gagal membaca file."})
			return
		}
		filename = header.Filename
	}

	err := screen.SubmitImport(c.Request.Context(), filename, data)
	if errors.Is(err, errs.ErrSubmitInFlight) {
		c.JSON(http.StatusConflict, gin.H{"message": "Permintaan sebelumnya masih diproses."})
		return
	}
	// Missing target/file and format rejections land in the notices.
	h.state(c, screen)
}

func (h *Handler) Template(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	tpl, err := screen.Template(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("Template download failed")
		c.JSON(http.StatusBadGateway, gin.H{"message": "Gagal mengunduh template."})
		return
	}

	contentType := tpl.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+tpl.Filename+`"`)
	c.Data(http.StatusOK, contentType, tpl.Data)
}
