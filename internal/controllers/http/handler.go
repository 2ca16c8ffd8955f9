package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront-api/internal/services"
)

type Handler struct {
	auth    *services.AuthService
	catalog *services.CatalogService
	carts   *services.CartService
	orders  *services.OrderService
	ping    func(ctx context.Context) error
}

func NewHandler(
	auth *services.AuthService,
	catalog *services.CatalogService,
	carts *services.CartService,
	orders *services.OrderService,
	ping func(ctx context.Context) error,
) *Handler {
	return &Handler{auth: auth, catalog: catalog, carts: carts, orders: orders, ping: ping}
}

// NewRouter builds the engine with recovery, request logging and CORS, and
// mounts every route.
func NewRouter(h *Handler, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))

	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{Success: false, Message: "Route not found"})
	})

	api := r.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	authed := api.Group("", h.RequireAuth())
	authed.GET("/profile", h.Profile)
	authed.PUT("/profile", h.UpdateProfile)
	authed.POST("/logout", h.Logout)

	authed.GET("/categories", h.ListCategories)
	authed.GET("/products", h.ListProducts)
	authed.GET("/products/:id", h.GetProduct)

	authed.GET("/cart", h.GetCart)
	authed.POST("/cart/add", h.AddToCart)
	authed.PUT("/cart/update", h.UpdateCart)
	authed.DELETE("/cart/remove/:product_id", h.RemoveFromCart)
	authed.DELETE("/cart/clear", h.ClearCart)

	authed.POST("/orders", h.CreateOrder)
	authed.GET("/orders", h.ListOrders)
	authed.GET("/orders/:id", h.GetOrder)

	admin := authed.Group("", AdminOnly())
	admin.POST("/categories", h.CreateCategory)
	admin.PUT("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)
	admin.POST("/products", h.CreateProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)
}

func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, Response{Success: false, Message: "Database unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, Response{Success: true})
}
