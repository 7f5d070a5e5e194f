package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"induslink-backend/config"
	"induslink-backend/internal/model"
	"induslink-backend/internal/mw"
	"induslink-backend/internal/notification"
	"induslink-backend/internal/store"
	"induslink-backend/internal/verify"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, engine *verify.Engine, notifier notification.Notifier, sessions *mw.SessionAuth) *gin.Engine {
	r := gin.Default()
	r.Use(mw.RequestID())

	handler := NewHandler(s, engine, notifier, sessions, cfg)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/health", handler.Health)

		// Public catalog, cached
		api.GET("/industries", caching, handler.GetIndustries)
		api.GET("/industries/:slug", caching, handler.GetIndustry)
		api.GET("/machines", caching, handler.GetMachines)
		api.GET("/machines/:id", caching, handler.GetMachine)

		auth := api.Group("/auth")
		{
			auth.POST("/register-buyer", handler.RegisterBuyer)
			auth.POST("/register-msme", handler.RegisterMSME)
			auth.POST("/register-supplier", handler.RegisterSupplier)
			auth.POST("/login", handler.Login)
			auth.GET("/me", sessions.RequireAuth(), handler.Me)
			auth.POST("/logout", handler.Logout)
		}

		buyer := api.Group("/buyer", sessions.RequireAuth(), mw.RequireRole(model.RoleBuyer))
		{
			buyer.GET("/saved", handler.GetSavedMachines)
			buyer.GET("/saved/:machineId", handler.CheckSavedMachine)
			buyer.POST("/saved", handler.SaveMachine)
			buyer.DELETE("/saved/:machineId", handler.UnsaveMachine)
			buyer.POST("/lead", handler.CreateLead)
		}

		msme := api.Group("/msme", sessions.RequireAuth(), mw.RequireRole(model.RoleMSME))
		{
			msme.POST("/wishlist", handler.AddToWishlist)
			msme.GET("/wishlist", handler.GetWishlist)
			msme.DELETE("/wishlist/:machineId", handler.RemoveFromWishlist)
			msme.POST("/request-machine", handler.RequestMachine)
			msme.GET("/requests", handler.GetOwnRequests)
		}

		supplier := api.Group("/supplier", sessions.RequireAuth(), mw.RequireRole(model.RoleSupplier))
		{
			supplier.GET("/machines", handler.GetOwnMachines)
			supplier.POST("/machines", handler.CreateMachine)
			supplier.GET("/leads", handler.GetLeads)
			supplier.GET("/requests", handler.GetIncomingRequests)
			supplier.PATCH("/requests/:requestId", handler.UpdateRequest)

			supplier.POST("/verify-machine", handler.SubmitVerification)
			supplier.GET("/verify-machines", handler.GetOwnVerifications)
			supplier.DELETE("/verify-machines/:machineId", handler.DeleteVerification)
			supplier.POST("/verify-machines/:machineId/message", handler.ReplyToAdmin)
		}

		authed := api.Group("", sessions.RequireAuth())
		{
			authed.GET("/notifications", handler.GetNotifications)
			authed.PATCH("/notifications/:notificationId/read", handler.MarkNotificationRead)
			authed.POST("/messages", handler.SendMessage)
			authed.GET("/messages/:userId", handler.GetThread)
			authed.GET("/conversations", handler.GetConversations)

			authed.PUT("/push/subscriptions", handler.PutSubscription)
			authed.GET("/push/subscriptions", handler.GetSubscriptions)
			authed.DELETE("/push/subscriptions", handler.DeleteSubscription)
		}
		api.GET("/push/vapid_public_key", handler.GetVAPIDPublicKey)

		admin := api.Group("/admin", mw.AdminKey(cfg.Admin.Key))
		{
			admin.GET("/verify-machines", handler.GetVerificationQueue)
			admin.POST("/verify-machines/:verificationId/message", handler.SendAdminMessage)
			admin.PATCH("/verify-machines/:verificationId", handler.ReviewVerification)
		}
	}

	return r
}
