// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/cart"
	"github.com/maisonheirbloom/storefront-api/internal/domain/checkout"
	"github.com/maisonheirbloom/storefront-api/internal/domain/payment"
	"github.com/maisonheirbloom/storefront-api/internal/domain/product"
	"github.com/maisonheirbloom/storefront-api/internal/domain/shipping"
	"github.com/maisonheirbloom/storefront-api/internal/interfaces/http/handlers"
	"github.com/maisonheirbloom/storefront-api/internal/pkg/email"
)

// SetupRoutes wires all storefront services and routes onto the router group
func SetupRoutes(rg *gin.RouterGroup, redisClient *redis.Client, mongoDB *mongo.Database, cfg *config.Config) {
	// Services
	productService := product.NewService(mongoDB, cfg)
	cartStore := cart.NewRedisStore(redisClient, cfg.Store.CartTTL)
	cartService := cart.NewService(cartStore, productService, cfg)
	shippingService := shipping.NewService(cfg)
	paymentService := payment.NewService(cfg)
	emailService := email.NewService(cfg)
	checkoutService := checkout.NewService(paymentService, emailService, cfg)

	// Handlers
	cartHandler := handlers.NewCartHandler(cartService, cfg)
	productHandler := handlers.NewProductHandler(productService, cfg)
	shippingHandler := handlers.NewShippingHandler(shippingService, cfg)
	paymentHandler := handlers.NewPaymentHandler(paymentService, checkoutService, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, cfg)
	emailHandler := handlers.NewEmailHandler(emailService, cfg)

	// Catalog
	rg.GET("/products", productHandler.ListProducts)
	rg.GET("/products/:slug", productHandler.GetProduct)
	rg.GET("/recipes", productHandler.ListRecipes)
	rg.GET("/recipes/:slug", productHandler.GetRecipe)
	rg.GET("/categories", productHandler.ListCategories)

	// Cart
	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PATCH("/items", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items", cartHandler.RemoveFromCart)
		cartGroup.DELETE("/all", cartHandler.ClearCart)
	}

	// Shipping
	rg.POST("/shipping-rates", shippingHandler.GetRates)
	rg.POST("/lettermail-rates", shippingHandler.GetLettermailRates)

	// Payments and checkout
	rg.POST("/payment-intent", paymentHandler.CreateIntent)
	rg.GET("/payment-intent", checkoutHandler.PollStatus)
	rg.POST("/instant-checkout", paymentHandler.InstantCheckout)
	rg.GET("/payment-methods", paymentHandler.GetPaymentMethods)

	// Email
	rg.POST("/send-confirmation-email", emailHandler.SendConfirmation)
	rg.POST("/newsletter", emailHandler.Subscribe)
}
