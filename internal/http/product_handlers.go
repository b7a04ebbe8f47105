package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"optic-ims/internal/service"
)

type createProductRequest struct {
	BrandID     string  `json:"brand" binding:"required"`
	ModelNumber string  `json:"modelNumber" binding:"required,min=2,max=50"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type updateProductRequest struct {
	BrandID     *string  `json:"brand"`
	ModelNumber *string  `json:"modelNumber"`
	Price       *float64 `json:"price"`
}

func (h *Handler) listProducts(c *gin.Context) {
	page, limit := pageParams(c)
	opts := service.ProductListOptions{
		Search:   c.Query("search"),
		BrandID:  c.Query("brand"),
		SortBy:   c.DefaultQuery("sortBy", "createdAt"),
		SortDesc: c.DefaultQuery("sortOrder", "desc") == "desc",
		Page:     page,
		Limit:    limit,
	}

	products, pagination, err := h.products.List(c.Request.Context(), opts)
	if err != nil {
		h.logger.WithError(err).Error("list products failed")
		respondError(c, http.StatusInternalServerError, "Error fetching products")
		return
	}

	resp := make([]ProductResponse, len(products))
	for i := range products {
		resp[i] = productToResponse(&products[i])
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data: gin.H{
			"products":   resp,
			"pagination": paginationToResponse(pagination),
		},
	})
}

func (h *Handler) listProductsByBrand(c *gin.Context) {
	page, limit := pageParams(c)

	products, brand, pagination, err := h.products.ListByBrand(c.Request.Context(), c.Param("brandId"), page, limit)
	if err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			respondError(c, http.StatusNotFound, "Brand not found")
			return
		}
		h.logger.WithError(err).Error("list products by brand failed")
		respondError(c, http.StatusInternalServerError, "Error fetching products by brand")
		return
	}

	resp := make([]ProductResponse, len(products))
	for i := range products {
		resp[i] = productToResponse(&products[i])
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data: gin.H{
			"products":   resp,
			"brand":      brandToResponse(brand),
			"pagination": paginationToResponse(pagination),
		},
	})
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.WithError(err).Error("get product failed")
		respondError(c, http.StatusInternalServerError, "Error fetching product")
		return
	}

	respondOK(c, "", productToResponse(product))
}

func (h *Handler) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	product, err := h.products.Create(c.Request.Context(), req.BrandID, req.ModelNumber, req.Price, CurrentUser(c).ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBrandNotFound):
			respondError(c, http.StatusBadRequest, "Brand not found")
		case errors.Is(err, service.ErrProductExists):
			respondError(c, http.StatusBadRequest, "Product with this brand and model number already exists")
		default:
			h.logger.WithError(err).Error("create product failed")
			respondError(c, http.StatusInternalServerError, "Error creating product")
		}
		return
	}

	respondCreated(c, "Product created successfully", productToResponse(product))
}

func (h *Handler) updateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), service.ProductUpdate{
		BrandID:     req.BrandID,
		ModelNumber: req.ModelNumber,
		Price:       req.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, service.ErrBrandNotFound):
			respondError(c, http.StatusBadRequest, "Brand not found")
		case errors.Is(err, service.ErrProductExists):
			respondError(c, http.StatusBadRequest, "Product with this brand and model number already exists")
		default:
			h.logger.WithError(err).Error("update product failed")
			respondError(c, http.StatusInternalServerError, "Error updating product")
		}
		return
	}

	respondOK(c, "Product updated successfully", productToResponse(product))
}

func (h *Handler) deleteProduct(c *gin.Context) {
	err := h.products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.WithError(err).Error("delete product failed")
		respondError(c, http.StatusInternalServerError, "Error deleting product")
		return
	}

	respondOK(c, "Product deleted successfully", nil)
}
