package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielCanisOrtega/tienda-backend/internal/apierror"
	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/service"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Add a product to the store's catalog
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Param        body body dto.CreateProductRequest true "Product data"
// @Success      201  {object} dto.ProductResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), storeID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List products with name/category filters
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path  string true  "Store UUID"
// @Param        name     query string false "Name substring"
// @Param        category query string false "Exact category"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Items per page (default 50)"
// @Success      200  {object} dto.ProductListResponse
// @Router       /v1/stores/{store_id}/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), storeID, userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAvailable godoc
// @Summary      List products with stock on hand
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Success      200  {array} dto.ProductResponse
// @Router       /v1/stores/{store_id}/products/available [get]
func (h *ProductsHandler) ListAvailable(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListAvailable(c.Request.Context(), storeID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        store_id   path string true "Store UUID"
// @Param        product_id path string true "Product UUID"
// @Success      200  {object} dto.ProductResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/products/{product_id} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "product_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), productID, storeID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update product details (not stock)
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        store_id   path string true "Store UUID"
// @Param        product_id path string true "Product UUID"
// @Param        body body dto.UpdateProductRequest true "Fields to change"
// @Success      200  {object} dto.ProductResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/products/{product_id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "product_id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), productID, storeID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdjustQuantity godoc
// @Summary      Set the absolute stock quantity
// @Description  Records a manual adjustment in the stock movement ledger.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        store_id   path string true "Store UUID"
// @Param        product_id path string true "Product UUID"
// @Param        body body dto.AdjustQuantityRequest true "New quantity"
// @Success      200  {object} dto.ProductResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/products/{product_id}/quantity [patch]
func (h *ProductsHandler) AdjustQuantity(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "product_id")
	if !ok {
		return
	}
	var req dto.AdjustQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.AdjustQuantity(c.Request.Context(), productID, storeID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a product without sale history
// @Tags         products
// @Security     BearerAuth
// @Param        store_id   path string true "Store UUID"
// @Param        product_id path string true "Product UUID"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/products/{product_id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "product_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), productID, storeID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Movements godoc
// @Summary      Stock movement history for a product, oldest first
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        store_id   path string true "Store UUID"
// @Param        product_id path string true "Product UUID"
// @Success      200  {array}  dto.StockMovementResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/products/{product_id}/movements [get]
func (h *ProductsHandler) Movements(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "product_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Movements(c.Request.Context(), productID, storeID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
