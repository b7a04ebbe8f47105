package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"optic-ims/internal/auth"
	"optic-ims/internal/domain"
	"optic-ims/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	brands    service.BrandService
	products  service.ProductService
	dashboard service.DashboardService
	tokens    *auth.TokenManager
	logger    *logrus.Logger
}

func NewHandler(
	users service.UserService,
	brands service.BrandService,
	products service.ProductService,
	dashboard service.DashboardService,
	tokens *auth.TokenManager,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		users:     users,
		brands:    brands,
		products:  products,
		dashboard: dashboard,
		tokens:    tokens,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "OK",
				"message":   "Optic IMS API is running",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", h.login)
			authGroup.POST("/forgot-password", h.forgotPassword)
			authGroup.POST("/reset-password", h.resetPassword)

			private := authGroup.Group("", h.AuthMiddleware())
			{
				private.GET("/me", h.currentUser)
				private.PUT("/profile", h.updateProfile)
				private.PUT("/change-password", h.changePassword)

				admin := private.Group("/admin", RequireRole(domain.RoleAdmin))
				{
					admin.PUT("/change-user-password", h.adminChangeUserPassword)
					admin.GET("/sales-user", h.salesUser)
				}
			}
		}

		brands := api.Group("/brands", h.AuthMiddleware())
		{
			brands.GET("", h.listBrands)
			brands.GET("/:id", h.getBrand)

			admin := brands.Group("", RequireRole(domain.RoleAdmin))
			{
				admin.POST("", h.createBrand)
				admin.PUT("/:id", h.updateBrand)
				admin.DELETE("/:id", h.deleteBrand)
			}
		}

		products := api.Group("/products", h.AuthMiddleware())
		{
			products.GET("", h.listProducts)
			products.GET("/brand/:brandId", h.listProductsByBrand)
			products.GET("/:id", h.getProduct)

			admin := products.Group("", RequireRole(domain.RoleAdmin))
			{
				admin.POST("", h.createProduct)
				admin.PUT("/:id", h.updateProduct)
				admin.DELETE("/:id", h.deleteProduct)
			}
		}

		api.GET("/dashboard/stats", h.AuthMiddleware(), h.dashboardStats)
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Route not found")
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	IsActive  bool    `json:"isActive"`
	LastLogin *string `json:"lastLogin,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type BrandResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type ProductResponse struct {
	ID            string  `json:"id"`
	BrandID       string  `json:"brandId"`
	BrandName     string  `json:"brandName"`
	BrandImageURL string  `json:"brandImageUrl,omitempty"`
	ModelNumber   string  `json:"modelNumber"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	CreatedBy     string  `json:"createdBy"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func userToResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
	if user.LastLogin != nil {
		v := user.LastLogin.Format(time.RFC3339)
		resp.LastLogin = &v
	}
	return resp
}

func brandToResponse(brand *domain.Brand) BrandResponse {
	return BrandResponse{
		ID:        brand.ID,
		Name:      brand.Name,
		ImageURL:  brand.ImageURL,
		CreatedBy: brand.CreatedBy,
		CreatedAt: brand.CreatedAt.Format(time.RFC3339),
		UpdatedAt: brand.UpdatedAt.Format(time.RFC3339),
	}
}

func productToResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            product.ID,
		BrandID:       product.BrandID,
		BrandName:     product.BrandName,
		BrandImageURL: product.BrandImageURL,
		ModelNumber:   product.ModelNumber,
		Price:         product.Price,
		Currency:      product.Currency,
		CreatedBy:     product.CreatedBy,
		CreatedAt:     product.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     product.UpdatedAt.Format(time.RFC3339),
	}
}

func paginationToResponse(p service.Pagination) PaginationResponse {
	return PaginationResponse{
		Page:  p.Page,
		Limit: p.Limit,
		Total: p.Total,
		Pages: p.Pages,
	}
}
