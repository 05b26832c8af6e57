package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teetananch67-commits/Tanny/internal/address"
	"github.com/teetananch67-commits/Tanny/internal/httpx"
)

func listAddressesHandler(addrs address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := addrs.ListByUser(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func createAddressHandler(addrs address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req address.UpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil ||
			req.Label == "" || req.RecipientName == "" || req.Line1 == "" {
			fail(c, http.StatusBadRequest, "Missing required fields")
			return
		}
		a := &address.Address{
			UserID:        httpx.UserID(c),
			Label:         req.Label,
			RecipientName: req.RecipientName,
			Phone:         req.Phone,
			Line1:         req.Line1,
			Note:          req.Note,
			IsDefault:     req.IsDefault != nil && *req.IsDefault,
		}
		if err := addrs.Create(c.Request.Context(), a); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func updateAddressHandler(addrs address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		var req address.UpsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid body")
			return
		}
		a, err := addrs.GetByID(c.Request.Context(), id)
		if err != nil {
			fail(c, http.StatusNotFound, "Address not found")
			return
		}
		if a.UserID != httpx.UserID(c) {
			fail(c, http.StatusForbidden, "Forbidden")
			return
		}
		if req.Label != "" {
			a.Label = req.Label
		}
		if req.RecipientName != "" {
			a.RecipientName = req.RecipientName
		}
		if req.Phone != "" {
			a.Phone = req.Phone
		}
		if req.Line1 != "" {
			a.Line1 = req.Line1
		}
		if req.Note != "" {
			a.Note = req.Note
		}
		if req.IsDefault != nil {
			a.IsDefault = *req.IsDefault
		}
		if err := addrs.Update(c.Request.Context(), a); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func deleteAddressHandler(addrs address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		err := addrs.Delete(c.Request.Context(), id, httpx.UserID(c))
		switch {
		case errors.Is(err, address.ErrNotFound):
			fail(c, http.StatusNotFound, "Address not found")
			return
		case errors.Is(err, address.ErrForbidden):
			fail(c, http.StatusForbidden, "Forbidden")
			return
		case err != nil:
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func setDefaultAddressHandler(addrs address.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid id")
			return
		}
		a, err := addrs.SetDefault(c.Request.Context(), id, httpx.UserID(c))
		switch {
		case errors.Is(err, address.ErrNotFound):
			fail(c, http.StatusNotFound, "Address not found")
			return
		case errors.Is(err, address.ErrForbidden):
			fail(c, http.StatusForbidden, "Forbidden")
			return
		case err != nil:
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, a)
	}
}
