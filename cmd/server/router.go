package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/teetananch67-commits/Tanny/internal/address"
	"github.com/teetananch67-commits/Tanny/internal/auth"
	"github.com/teetananch67-commits/Tanny/internal/config"
	"github.com/teetananch67-commits/Tanny/internal/httpx"
	"github.com/teetananch67-commits/Tanny/internal/menu"
	"github.com/teetananch67-commits/Tanny/internal/order"
	"github.com/teetananch67-commits/Tanny/internal/promotion"
	"github.com/teetananch67-commits/Tanny/internal/settings"
	"github.com/teetananch67-commits/Tanny/internal/user"
)

type routerDeps struct {
	cfg    config.Config
	log    *logrus.Logger
	users  user.Repository
	menus  menu.Repository
	orders order.Repository
	addrs  address.Repository
	sets   settings.Repository
	promos promotion.Repository
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(d.log))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	ar := api.Group("/auth")
	ar.POST("/register", registerHandler(d.users, d.cfg))
	ar.POST("/login", loginHandler(d.users, d.cfg))
	ar.POST("/refresh", refreshHandler(d.users, d.cfg))
	ar.POST("/logout", logoutHandler(d.cfg))
	ar.GET("/me", httpx.Auth(d.cfg.AccessSecret), meHandler(d.users))

	// storefront reads need no identity
	api.GET("/menu", getMenuHandler(d.menus, false))
	api.GET("/menu/recommended", getMenuHandler(d.menus, true))
	api.GET("/categories", listCategoriesHandler(d.menus))
	api.GET("/promotions", listPromotionsHandler(d.promos))
	api.GET("/settings", getSettingsHandler(d.sets))

	authed := api.Group("", httpx.Auth(d.cfg.AccessSecret))

	authed.POST("/orders", createOrderHandler(d.orders, d.menus, d.addrs, d.sets, d.users))
	authed.GET("/orders", listOrdersHandler(d.orders))
	authed.GET("/orders/:id", getOrderHandler(d.orders))
	authed.POST("/orders/:id/reorder", reorderHandler(d.orders, d.menus, d.users))
	authed.POST("/orders/:id/cancel", cancelOrderHandler(d.orders))
	authed.POST("/payments", createPaymentHandler(d.orders, d.sets))

	authed.GET("/addresses", listAddressesHandler(d.addrs))
	authed.POST("/addresses", createAddressHandler(d.addrs))
	authed.PUT("/addresses/:id", updateAddressHandler(d.addrs))
	authed.DELETE("/addresses/:id", deleteAddressHandler(d.addrs))
	authed.POST("/addresses/:id/default", setDefaultAddressHandler(d.addrs))

	merchant := authed.Group("", httpx.RequireRole(auth.RoleMerchantAdmin))

	merchant.POST("/menu", createMenuItemHandler(d.menus))
	merchant.PUT("/menu/:id", updateMenuItemHandler(d.menus))
	merchant.DELETE("/menu/:id", deleteMenuItemHandler(d.menus))
	merchant.POST("/categories", createCategoryHandler(d.menus))
	merchant.PUT("/categories/:id", updateCategoryHandler(d.menus))
	merchant.DELETE("/categories/:id", deleteCategoryHandler(d.menus))

	merchant.GET("/merchant/promotions", merchantListPromotionsHandler(d.promos))
	merchant.POST("/promotions", createPromotionHandler(d.promos))
	merchant.PUT("/promotions/:id", updatePromotionHandler(d.promos))
	merchant.DELETE("/promotions/:id", deletePromotionHandler(d.promos))

	merchant.PUT("/settings", updateSettingsHandler(d.sets))

	merchant.GET("/merchant/orders", merchantListOrdersHandler(d.orders))
	merchant.GET("/merchant/orders/:id", merchantGetOrderHandler(d.orders))
	merchant.POST("/merchant/orders/:id/confirm", merchantTransitionHandler(d.orders, order.StatusConfirmed))
	merchant.POST("/merchant/orders/:id/reject", merchantTransitionHandler(d.orders, order.StatusRejected))
	merchant.POST("/merchant/orders/:id/cancel", merchantTransitionHandler(d.orders, order.StatusCancelled))
	merchant.PATCH("/merchant/orders/:id/status", merchantUpdateStatusHandler(d.orders))
	merchant.GET("/merchant/dashboard", merchantDashboardHandler(d.orders))

	return r
}
