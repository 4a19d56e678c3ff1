package server

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/zeinnaushad/elevate/internal/config"
	"github.com/zeinnaushad/elevate/internal/handler"
	infraRepo "github.com/zeinnaushad/elevate/internal/infra/repository"
	"github.com/zeinnaushad/elevate/internal/middleware"
	"github.com/zeinnaushad/elevate/internal/usecase"
	auth "github.com/zeinnaushad/elevate/internal/usecase/auth_usecase"
)

type handlers struct {
	guards        handler.Guards
	registerLimit echo.MiddlewareFunc
	loginLimit    echo.MiddlewareFunc

	auth         *handler.AuthHandler
	product      *handler.ProductHandler
	adminProduct *handler.AdminProductHandler
	review       *handler.ReviewHandler
	cart         *handler.CartHandler
	order        *handler.OrderHandler
	adminOrder   *handler.AdminOrderHandler
	adminUser    *handler.AdminUserHandler
}

// wire builds repositories, usecases and handlers on top of d.DB.
func wire(d Deps) handlers {
	cfg := d.Config

	userRepo := infraRepo.NewUserGormRepository(d.DB)
	productRepo := infraRepo.NewProductGormRepository(d.DB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(d.DB)
	reviewRepo := infraRepo.NewReviewGormRepository(d.DB)
	auditRepo := infraRepo.NewAuditLogGormRepository(d.DB)
	txm := infraRepo.NewTxManagerGorm(d.DB)

	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWT.Secret, cfg.JWT.TTL())
	clock := auth.SystemClock{}

	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, issuer, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	profileUC := auth.NewProfileUsecase(userRepo, txm)

	productUC := usecase.NewProductUsecase(productRepo, txm)
	exportUC := usecase.NewCatalogExportUsecase(productRepo)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo)
	cartUC := usecase.NewCartUsecase(txm, cartItemRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txm)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, txm)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	authMW := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg.JWT.Secret),
		middleware.TokenVersionGuard(userRepo),
	}
	adminMW := append(append([]echo.MiddlewareFunc{}, authMW...), middleware.AdminRoleGuard(d.Enforcer))

	h := handlers{
		guards: handler.Guards{Auth: authMW, Admin: adminMW},

		auth:         handler.NewAuthHandler(registerUC, loginUC, profileUC),
		product:      handler.NewProductHandler(productUC),
		adminProduct: handler.NewAdminProductHandler(productUC, exportUC),
		review:       handler.NewReviewHandler(reviewUC),
		cart:         handler.NewCartHandler(cartUC),
		order:        handler.NewOrderHandler(orderUC),
		adminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		adminUser:    handler.NewAdminUserHandler(adminUserUC, auditUC),
	}

	if d.Redis != nil {
		h.registerLimit = middleware.RateLimit(d.Redis, rateLimitRule(cfg, "register"), middleware.KeyByIPAndJSONField("email"))
		h.loginLimit = middleware.RateLimit(d.Redis, rateLimitRule(cfg, "login"), middleware.KeyByIPAndJSONField("email"))
	}
	return h
}

func rateLimitRule(cfg config.Config, name string) middleware.RateLimitRule {
	return middleware.RateLimitRule{
		Prefix:        fmt.Sprintf("%s:ratelimit:%s", cfg.Redis.Prefix, name),
		WindowSeconds: cfg.RateLimit.WindowSeconds,
		MaxRequests:   cfg.RateLimit.MaxRequests,
	}
}

func registerRoutes(api *echo.Group, h handlers) {
	handler.RegisterHealth(api)

	h.auth.RegisterRoutes(api, h.guards, h.registerLimit, h.loginLimit)
	h.product.RegisterRoutes(api)
	h.adminProduct.RegisterRoutes(api, h.guards)
	h.review.RegisterRoutes(api, h.guards)
	h.cart.RegisterRoutes(api, h.guards)
	h.order.RegisterRoutes(api, h.guards)
	h.adminOrder.RegisterRoutes(api, h.guards)
	h.adminUser.RegisterRoutes(api, h.guards)
}
