package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsly/newsly/internal/core"
	"github.com/newsly/newsly/internal/middleware"
	"github.com/newsly/newsly/internal/news"
	"github.com/newsly/newsly/internal/store"
)

type handlers struct {
	services Services
}

// ---- auth ----

type credentialsRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *handlers) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, news.ErrInvalidFormat)
		return
	}

	resp, err := h.services.AuthCore.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handlers) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, news.ErrInvalidFormat)
		return
	}

	resp, err := h.services.AuthCore.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ---- news ----

func (h *handlers) listByCategory(c *gin.Context) {
	q, err := news.ParseCategoryQuery(
		c.Query("category"), c.Query("page"), c.Query("pageSize"))
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.services.Gateway.Fetch(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) search(c *gin.Context) {
	q, err := news.ParseSearchQuery(
		c.Query("q"), c.Query("page"), c.Query("pageSize"),
		c.Query("from"), c.Query("to"), c.Query("sort"))
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.services.Gateway.Fetch(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) articleDetail(c *gin.Context) {
	key := c.Query("id")
	if key == "" {
		key = c.Query("url")
	}

	article, err := h.services.Gateway.Article(c.Request.Context(), key)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *handlers) personalized(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.services.Resolver.Fetch(c.Request.Context(), userID,
		c.Query("page"), c.Query("pageSize"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Gateway.Stats())
}

func (h *handlers) clearCache(c *gin.Context) {
	email, err := middleware.GetUserEmail(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.services.Gateway.ClearCache(email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "cache cleared"})
}

// ---- preferences ----

type preferencesRequest struct {
	Categories []string `json:"categories"`
}

func (h *handlers) getPreferences(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	categories, err := h.services.Store.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, preferencesRequest{Categories: categories})
}

func (h *handlers) updatePreferences(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Categories) == 0 {
		writeError(c, news.ErrInvalidFormat)
		return
	}
	for _, category := range req.Categories {
		if !news.ValidCategory(category) {
			writeError(c, news.ErrInvalidFormat)
			return
		}
	}

	if err := h.services.Store.UpdatePreferences(c.Request.Context(), userID, req.Categories); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ---- saved articles ----

func (h *handlers) listSaved(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	articles, err := h.services.Store.GetSavedArticles(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if articles == nil {
		articles = []news.Article{}
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

func (h *handlers) saveArticle(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var article news.Article
	if err := c.ShouldBindJSON(&article); err != nil || article.URL == "" || article.Title == "" {
		writeError(c, news.ErrInvalidFormat)
		return
	}
	if article.ID == "" {
		article.ID = news.ArticleID(article.URL)
	}

	if err := h.services.Store.SaveArticle(c.Request.Context(), userID, &article); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "id": article.ID})
}

func (h *handlers) deleteSaved(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.services.Store.DeleteSavedArticle(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// writeError maps domain errors to HTTP statuses and stable API codes.
func writeError(c *gin.Context, err error) {
	var status int
	code := news.Code(err)

	switch {
	case errors.Is(err, news.ErrInvalidFormat), errors.Is(err, core.ErrInvalidInput):
		status, code = http.StatusBadRequest, "VAL_INVALID_FORMAT"
	case errors.Is(err, core.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "AUTH_UNAUTHORIZED"
	case errors.Is(err, news.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, news.ErrArticleNotFound), errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "NEWS_ARTICLE_NOT_FOUND"
	case errors.Is(err, store.ErrEmailTaken):
		status, code = http.StatusConflict, "AUTH_EMAIL_TAKEN"
	case errors.Is(err, news.ErrRateLimitExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, news.ErrUpstream):
		status = http.StatusBadGateway
	default:
		log.Printf("[Server] Internal error: %v", err)
		status, code = http.StatusInternalServerError, "INTERNAL_ERROR"
	}

	c.JSON(status, gin.H{"code": code, "error": err.Error()})
}
