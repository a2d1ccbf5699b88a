package router

import (
	"github.com/gin-gonic/gin"

	"github.com/podsuite/console/internal/interfaces/http/handler"
	"github.com/podsuite/console/internal/interfaces/http/middleware"
	"github.com/podsuite/console/internal/session"
)

// PublicRoutes registers the endpoints reachable without a session: login,
// registration, OAuth entry points and the redirect landings the upstream
// sends the browser back to.
type PublicRoutes struct {
	Auth *handler.AuthHandler
}

// RegisterRoutes implements RouteRegistrar
func (r *PublicRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", r.Auth.Login)
		auth.POST("/register", r.Auth.Register)
		auth.GET("/session", r.Auth.Session)
		auth.GET("/callback", r.Auth.Callback)
		auth.GET("/:provider/authorize", r.Auth.Authorize)
	}

	// OAuth landings for shop and supplier connections share the same
	// token-adoption flow
	rg.GET("/shops/callback", r.Auth.Callback)
	rg.GET("/suppliers/callback", r.Auth.Callback)
}

// ProtectedRoutes registers every page that requires a logged-in session.
// The guard runs before any handler in this group.
type ProtectedRoutes struct {
	Session   *session.Store
	LoginPath string

	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Suppliers *handler.SupplierHandler
	Shops     *handler.ShopHandler
	Products  *handler.ProductHandler
	Templates *handler.TemplateHandler
	Orders    *handler.OrderHandler
	Pricing   *handler.PricingHandler
	Discounts *handler.DiscountHandler
	Listings  *handler.ListingHandler
	Analytics *handler.AnalyticsHandler
	Settings  *handler.SettingsHandler
}

// RegisterRoutes implements RouteRegistrar
func (r *ProtectedRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	guarded := rg.Group("", middleware.SessionGuard(r.Session, r.LoginPath))

	guarded.POST("/auth/logout", r.Auth.Logout)

	users := guarded.Group("/users/me")
	{
		users.GET("", r.Users.Profile)
		users.PATCH("", r.Users.UpdateProfile)
		users.PUT("/password", r.Users.ChangePassword)
		users.PUT("/email", r.Users.ChangeEmail)
		users.POST("/deactivate", r.Users.Deactivate)
		users.GET("/summary", r.Users.Summary)
		users.GET("/theme", r.Users.Theme)
		users.PUT("/theme", r.Users.SetTheme)
	}

	suppliers := guarded.Group("/suppliers")
	{
		suppliers.GET("", r.Suppliers.List)
		suppliers.GET("/status", r.Suppliers.Status)
		suppliers.GET("/connection/:id", r.Suppliers.Connection)
		suppliers.POST("/connection/:id/disconnect", r.Suppliers.Disconnect)
		suppliers.POST("/connection/:id/activate", r.Suppliers.Activate)
		suppliers.POST("/connection/:id/deactivate", r.Suppliers.Deactivate)
		suppliers.POST("/connection/:id/sync", r.Suppliers.Sync)
		suppliers.GET("/connection/:id/products", r.Suppliers.Products)
		suppliers.GET("/:type", r.Suppliers.ByType)
		suppliers.POST("/:type/connect", r.Suppliers.Connect)
	}

	shops := guarded.Group("/shops")
	{
		shops.GET("", r.Shops.List)
		shops.POST("/etsy/connect", r.Shops.ConnectEtsy)
		shops.POST("/shopify/connect", r.Shops.ConnectShopify)
		shops.GET("/:id", r.Shops.Get)
		shops.POST("/:id/disconnect", r.Shops.Disconnect)
		shops.DELETE("/:id/delete", r.Shops.Delete)
		shops.POST("/:id/sync", r.Shops.Sync)
		shops.GET("/:id/products", r.Shops.Products)
		shops.GET("/:id/products/export", r.Listings.ExportCSV)
		shops.GET("/:id/products/:productId", r.Shops.Product)
	}

	products := guarded.Group("/products")
	{
		products.GET("/compare", r.Products.Compare)
		products.GET("/compare/summary", r.Products.Summary)
		products.GET("/compare/:id", r.Products.Comparison)
		products.GET("/types", r.Products.Types)
		products.GET("/match/:id", r.Products.FindMatches)
		products.POST("/switch", r.Products.Switch)
		products.POST("/switch/bulk", r.Products.BulkSwitch)

		user := products.Group("/user")
		{
			user.GET("/list", r.Products.UserProducts)
			user.POST("/add", r.Products.AddUserProduct)
			user.GET("/catalog/:id", r.Products.Catalog)
			user.DELETE("/:id", r.Products.DeleteUserProduct)
			user.GET("/:id/suppliers", r.Products.UserProductSuppliers)
		}
	}

	templates := guarded.Group("/templates")
	{
		templates.GET("", r.Templates.List)
		templates.POST("", r.Templates.Create)
		templates.GET("/:id", r.Templates.Get)
		templates.PATCH("/:id", r.Templates.Update)
		templates.DELETE("/:id", r.Templates.Delete)
		templates.POST("/:id/products", r.Templates.AddProduct)
		templates.PATCH("/:id/products/:productId", r.Templates.UpdateProduct)
		templates.DELETE("/:id/products/:productId", r.Templates.DeleteProduct)
		templates.POST("/:id/products/:productId/colors", r.Templates.AddColor)
		templates.DELETE("/:id/products/:productId/colors/:colorId", r.Templates.DeleteColor)
		templates.GET("/:id/products/:productId/pricing", r.Templates.ProductPricing)
		templates.POST("/:id/create-listing", r.Templates.CreateListing)
		templates.POST("/:id/preview", r.Templates.Preview)
	}

	orders := guarded.Group("/orders")
	{
		orders.GET("", r.Orders.List)
		orders.GET("/fulfillment", r.Orders.Fulfillment)
		orders.GET("/:id", r.Orders.Get)
	}

	listings := guarded.Group("/listings")
	{
		listings.GET("", r.Listings.List)
		listings.POST("/preview", r.Listings.PreviewCSV)
		listings.GET("/:id", r.Listings.Get)
	}

	pricing := guarded.Group("/pricing")
	{
		pricing.POST("/calculator", r.Pricing.Calculate)
		pricing.GET("/rules", r.Pricing.ListRules)
		pricing.POST("/rules", r.Pricing.CreateRule)
		pricing.GET("/rules/:id", r.Pricing.GetRule)
		pricing.PATCH("/rules/:id", r.Pricing.UpdateRule)
		pricing.DELETE("/rules/:id", r.Pricing.DeleteRule)
	}

	discounts := guarded.Group("/discounts")
	{
		discounts.GET("", r.Discounts.List)
		discounts.POST("", r.Discounts.Create)
		discounts.GET("/:id", r.Discounts.Get)
		discounts.PATCH("/:id", r.Discounts.Update)
		discounts.DELETE("/:id", r.Discounts.Delete)
		discounts.POST("/:id/products", r.Discounts.AddMapping)
		discounts.DELETE("/:id/products/:mappingId", r.Discounts.RemoveMapping)
	}

	analytics := guarded.Group("/analytics")
	{
		analytics.GET("/overview", r.Analytics.Overview)
		analytics.GET("/products", r.Analytics.Products)
		analytics.GET("/profitability", r.Analytics.Profitability)
	}

	guarded.GET("/settings/billing", r.Settings.Billing)
}

// SystemRoutes registers unversioned operational endpoints directly on the
// engine: they sit outside /api and outside the guard.
type SystemRoutes struct {
	System *handler.SystemHandler
}

// Register wires the system routes onto the engine
func (r *SystemRoutes) Register(engine *gin.Engine) {
	engine.GET("/health", r.System.Health)
	engine.GET("/system/info", r.System.Info)
}
