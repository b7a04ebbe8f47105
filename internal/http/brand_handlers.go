package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"optic-ims/internal/service"
)

// maxImageSize caps uploaded brand images at 5 MiB.
const maxImageSize = 5 << 20

func (h *Handler) listBrands(c *gin.Context) {
	page, limit := pageParams(c)
	search := c.Query("search")

	brands, pagination, err := h.brands.List(c.Request.Context(), search, page, limit)
	if err != nil {
		h.logger.WithError(err).Error("list brands failed")
		respondError(c, http.StatusInternalServerError, "Error fetching brands")
		return
	}

	resp := make([]BrandResponse, len(brands))
	for i := range brands {
		resp[i] = brandToResponse(&brands[i])
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data: gin.H{
			"brands":     resp,
			"pagination": paginationToResponse(pagination),
		},
	})
}

func (h *Handler) getBrand(c *gin.Context) {
	brand, err := h.brands.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			respondError(c, http.StatusNotFound, "Brand not found")
			return
		}
		h.logger.WithError(err).Error("get brand failed")
		respondError(c, http.StatusInternalServerError, "Error fetching brand")
		return
	}

	respondOK(c, "", brandToResponse(brand))
}

func (h *Handler) createBrand(c *gin.Context) {
	name := c.PostForm("name")
	if len(name) < 2 || len(name) > 50 {
		respondError(c, http.StatusBadRequest, "Brand name must be between 2 and 50 characters")
		return
	}

	image, cleanup, err := openFormImage(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if image == nil {
		respondError(c, http.StatusBadRequest, "Brand image is required")
		return
	}
	defer cleanup()

	brand, err := h.brands.Create(c.Request.Context(), name, image, CurrentUser(c).ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBrandExists):
			respondError(c, http.StatusBadRequest, "Brand with this name already exists")
		case errors.Is(err, service.ErrImageRequired):
			respondError(c, http.StatusBadRequest, "Brand image is required")
		default:
			h.logger.WithError(err).Error("create brand failed")
			respondError(c, http.StatusInternalServerError, "Error creating brand")
		}
		return
	}

	respondCreated(c, "Brand created successfully", brandToResponse(brand))
}

func (h *Handler) updateBrand(c *gin.Context) {
	name := c.PostForm("name")
	if name != "" && (len(name) < 2 || len(name) > 50) {
		respondError(c, http.StatusBadRequest, "Brand name must be between 2 and 50 characters")
		return
	}

	image, cleanup, err := openFormImage(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if image != nil {
		defer cleanup()
	}

	brand, err := h.brands.Update(c.Request.Context(), c.Param("id"), name, image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBrandNotFound):
			respondError(c, http.StatusNotFound, "Brand not found")
		case errors.Is(err, service.ErrBrandExists):
			respondError(c, http.StatusBadRequest, "Brand with this name already exists")
		default:
			h.logger.WithError(err).Error("update brand failed")
			respondError(c, http.StatusInternalServerError, "Error updating brand")
		}
		return
	}

	respondOK(c, "Brand updated successfully", brandToResponse(brand))
}

func (h *Handler) deleteBrand(c *gin.Context) {
	err := h.brands.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBrandNotFound):
			respondError(c, http.StatusNotFound, "Brand not found")
		case errors.Is(err, service.ErrBrandHasProducts):
			respondError(c, http.StatusBadRequest, "Cannot delete brand. Products are associated with this brand.")
		default:
			h.logger.WithError(err).Error("delete brand failed")
			respondError(c, http.StatusInternalServerError, "Error deleting brand")
		}
		return
	}

	respondOK(c, "Brand deleted successfully", nil)
}

// openFormImage reads the optional "image" form file. Returns a nil image
// when the field is absent.
func openFormImage(c *gin.Context) (*service.BrandImage, func(), error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, errors.New("invalid image upload")
	}
	if fileHeader.Size > maxImageSize {
		return nil, nil, errors.New("image must be smaller than 5MB")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
	default:
		return nil, nil, errors.New("image must be a JPEG, PNG, WebP or GIF")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, errors.New("invalid image upload")
	}

	return &service.BrandImage{
			Body:        file,
			ContentType: contentType,
		}, func() {
			closeMultipartFile(file)
		}, nil
}

func closeMultipartFile(file multipart.File) {
	_ = file.Close()
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}
