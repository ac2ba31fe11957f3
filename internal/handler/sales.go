package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielCanisOrtega/tienda-backend/internal/apierror"
	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/service"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Create godoc
// @Summary      Register a multi-line sale
// @Description  Atomic: decrements stock for every line or fails as a whole. Requires an open till.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Param        body body dto.CreateSaleRequest true "Sale lines"
// @Success      201  {object} dto.SaleResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	var req dto.CreateSaleRequest
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
// @Summary      List sales, newest first
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path  string true  "Store UUID"
// @Param        date     query string false "Date YYYY-MM-DD"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Items per page (default 50)"
// @Success      200  {object} dto.SaleListResponse
// @Router       /v1/stores/{store_id}/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	var filter dto.SaleFilter
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

// Get godoc
// @Summary      Get one sale with its lines
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Param        sale_id  path string true "Sale UUID"
// @Success      200  {object} dto.SaleResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/sales/{sale_id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	saleID, ok := pathUUID(c, "sale_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), saleID, storeID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
