package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielCanisOrtega/tienda-backend/internal/apierror"
	"github.com/DanielCanisOrtega/tienda-backend/internal/service"
)

// PriceCheckHandler serves the public barcode price lookup used by
// self-service scanners. No auth — it exposes name, price and availability
// only.
type PriceCheckHandler struct{ svc service.ProductService }

func NewPriceCheckHandler(svc service.ProductService) *PriceCheckHandler {
	return &PriceCheckHandler{svc: svc}
}

// ByBarcode godoc
// @Summary      Look up a product's price by barcode
// @Tags         prices
// @Produce      json
// @Param        barcode path string true "Product barcode"
// @Success      200  {object} dto.PriceCheckResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/price/{barcode} [get]
func (h *PriceCheckHandler) ByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, apierror.New("barcode is required"))
		return
	}
	resp, err := h.svc.PriceByBarcode(c.Request.Context(), barcode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
