package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/teetananch67-commits/Tanny/internal/menu"
)

func getMenuHandler(menus menu.Repository, recommendedOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := menus.ListAvailable(c.Request.Context(), recommendedOnly)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func listCategoriesHandler(menus menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := menus.ListCategories(c.Request.Context())
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, cats)
	}
}

func createMenuItemHandler(menus menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menu.CreateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil ||
			req.CategoryID <= 0 || req.Name == "" || req.Price == "" || req.ImageURL == "" {
			fail(c, http.StatusBadRequest, "Missing required fields")
			return
		}
		if _, err := decimal.NewFromString(req.Price); err != nil {
			fail(c, http.StatusBadRequest, "Invalid price")
			return
		}
		it := &menu.Item{
			CategoryID:    req.CategoryID,
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			ImageURL:      req.ImageURL,
			IsAvailable:   req.IsAvailable == nil || *req.IsAvailable,
			IsRecommended: req.IsRecommended,
		}
		if err := menus.CreateItem(c.Request.Context(), it); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusCreated, it)
	}
}

func updateMenuItemHandler(menus menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		var req menu.UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid body")
			return
		}
		it, err := menus.GetItemByID(c.Request.Context(), id)
		if err != nil {
			fail(c, http.StatusNotFound, "Menu item not found")
			return
		}
		if req.CategoryID != nil {
			it.CategoryID = *req.CategoryID
		}
		if req.Name != nil {
			it.Name = *req.Name
		}
		if req.Description != nil {
			it.Description = *req.Description
		}
		if req.Price != nil {
			if _, err := decimal.NewFromString(*req.Price); err != nil {
				fail(c, http.StatusBadRequest, "Invalid price")
				return
			}
			it.Price = *req.Price
		}
		if req.ImageURL != nil {
			it.ImageURL = *req.ImageURL
		}
		if req.IsAvailable != nil {
			it.IsAvailable = *req.IsAvailable
		}
		if req.IsRecommended != nil {
			it.IsRecommended = *req.IsRecommended
		}
		if err := menus.UpdateItem(c.Request.Context(), it); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

func deleteMenuItemHandler(menus menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		deleted, err := menus.DeleteItem(c.Request.Context(), id)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		if !deleted {
			fail(c, http.StatusNotFound, "Menu item not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func createCategoryHandler(menus menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			fail(c, http.StatusBadRequest, "Missing name")
			return
		}
		cat := &menu.Category{Name: req.Name}
		if err := menus.CreateCategory(c.Request.Context(), cat); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

func updateCategoryHandler(menus menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			fail(c, http.StatusBadRequest, "Missing name")
			return
		}
		cat := &menu.Category{ID: id, Name: req.Name}
		updated, err := menus.UpdateCategory(c.Request.Context(), cat)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		if !updated {
			fail(c, http.StatusNotFound, "Category not found")
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func deleteCategoryHandler(menus menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		err := menus.DeleteCategory(c.Request.Context(), id)
		switch {
		case errors.Is(err, menu.ErrCategoryInUse):
			fail(c, http.StatusConflict, "Category still has menu items")
			return
		case errors.Is(err, menu.ErrNotFound):
			fail(c, http.StatusNotFound, "Category not found")
			return
		case err != nil:
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
