package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teetananch67-commits/Tanny/internal/promotion"
)

func listPromotionsHandler(promos promotion.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := promos.List(c.Request.Context(), true)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func merchantListPromotionsHandler(promos promotion.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := promos.List(c.Request.Context(), false)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func createPromotionHandler(promos promotion.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req promotion.UpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == nil || *req.ImageURL == "" {
			fail(c, http.StatusBadRequest, "imageUrl required")
			return
		}
		p := &promotion.Promotion{ImageURL: *req.ImageURL, IsActive: true}
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
		if req.SortOrder != nil {
			p.SortOrder = *req.SortOrder
		}
		if err := promos.Create(c.Request.Context(), p); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updatePromotionHandler(promos promotion.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		var req promotion.UpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid body")
			return
		}
		p, err := promos.GetByID(c.Request.Context(), id)
		if err != nil {
			fail(c, http.StatusNotFound, "Promotion not found")
			return
		}
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.ImageURL != nil {
			p.ImageURL = *req.ImageURL
		}
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
		if req.SortOrder != nil {
			p.SortOrder = *req.SortOrder
		}
		if err := promos.Update(c.Request.Context(), p); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deletePromotionHandler(promos promotion.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		deleted, err := promos.Delete(c.Request.Context(), id)
		if err != nil && !errors.Is(err, promotion.ErrNotFound) {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		if !deleted {
			fail(c, http.StatusNotFound, "Promotion not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
