package product

import (
	"strings"

	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/middleware"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/service"
	"robotapp-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxImageSize = 5 << 20

var sortFields = []string{"price", "name", "createdAt", "stock"}

// ProductHandler serves the catalog
type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	util.RegisterValidators()
	return &ProductHandler{productService}
}

// ListProducts is public. Admins may pass includeInactive=true.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	field, desc := util.ParseSort(c.Query("sort"), sortFields, "-createdAt")
	includeInactive := false
	if flag := util.ParseBoolQuery(c, "includeInactive"); flag != nil {
		includeInactive = *flag && middleware.CurrentActor(c).IsAdmin()
	}

	filter := model.ProductFilter{
		Variant:         c.Query("variant"),
		Search:          strings.TrimSpace(c.Query("search")),
		MinPrice:        util.ParseFloatQuery(c, "minPrice"),
		MaxPrice:        util.ParseFloatQuery(c, "maxPrice"),
		IncludeInactive: includeInactive,
		SortField:       field,
		SortDesc:        desc,
		Page:            page,
		Limit:           limit,
	}
	products, total, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, util.NewListResponse(products, page, limit, total), "")
}

func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.productService.GetBySlug(c.Request.Context(), c.Param("slug"), middleware.CurrentActor(c).IsAdmin())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, product, "")
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetByID(c.Request.Context(), c.Param("id"), middleware.CurrentActor(c).IsAdmin())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, product, "")
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, product, "Product created")
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var input service.ProductUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.FromBinding(err))
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, product, "Product updated")
}

// DeactivateProduct hides the product from the public catalog
func (h *ProductHandler) DeactivateProduct(c *gin.Context) {
	if err := h.productService.DeactivateProduct(c.Request.Context(), c.Param("id")); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Product deactivated")
}

// DeleteProduct removes the product permanently
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Info("product deleted", zap.String("product_id", c.Param("id")), zap.String("admin_id", c.GetString(middleware.ContextUserID)))
	errors.HandleSuccess(c, nil, "Product deleted")
}

// UploadImage takes a multipart "image" file and an optional "alt" field
func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "image file is required", err))
		return
	}
	if file.Size > maxImageSize {
		errors.HandleError(c, errors.New(errors.ErrValidation, "image must be 5MB or smaller"))
		return
	}

	src, err := file.Open()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "could not read upload", err))
		return
	}
	defer src.Close()

	product, err := h.productService.UploadImage(c.Request.Context(), c.Param("id"), file.Filename, src, c.PostForm("alt"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleCreated(c, product, "Image uploaded")
}
