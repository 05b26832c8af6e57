package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/teetananch67-commits/Tanny/internal/settings"
)

func getSettingsHandler(sets settings.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sets.Get(c.Request.Context())
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func updateSettingsHandler(sets settings.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req settings.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid body")
			return
		}
		s, err := sets.Get(c.Request.Context())
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		if s == nil {
			s = &settings.Settings{DeliveryFee: "0.00", OpenHours: "09:00 - 21:00", AcceptCash: true}
		}
		if req.DeliveryFee != nil {
			fee, err := decimal.NewFromString(*req.DeliveryFee)
			if err != nil || fee.IsNegative() {
				fail(c, http.StatusBadRequest, "Invalid delivery fee")
				return
			}
			s.DeliveryFee = fee.StringFixed(2)
		}
		if req.OpenHours != nil {
			s.OpenHours = *req.OpenHours
		}
		if req.QRImageURL != nil {
			s.QRImageURL = *req.QRImageURL
		}
		if req.AcceptCash != nil {
			s.AcceptCash = *req.AcceptCash
		}
		if err := sets.Upsert(c.Request.Context(), s); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, s)
	}
}
