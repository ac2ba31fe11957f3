package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/service"
)

type TillsHandler struct{ svc service.TillService }

func NewTillsHandler(svc service.TillService) *TillsHandler { return &TillsHandler{svc: svc} }

// Open godoc
// @Summary      Open a till session for the store
// @Description  At most one till may be open per store at any moment.
// @Tags         tills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Param        body body dto.OpenTillRequest true "Shift and opening balance"
// @Success      201  {object} dto.TillResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/tills [post]
func (h *TillsHandler) Open(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	var req dto.OpenTillRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), storeID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary      Close an open till with its counted balance
// @Tags         tills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        till_id path string true "Till UUID"
// @Param        body body dto.CloseTillRequest true "Closing balance"
// @Success      200  {object} dto.TillResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/tills/{till_id}/close [post]
func (h *TillsHandler) Close(c *gin.Context) {
	tillID, ok := pathUUID(c, "till_id")
	if !ok {
		return
	}
	var req dto.CloseTillRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), tillID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one till session
// @Tags         tills
// @Produce      json
// @Security     BearerAuth
// @Param        till_id path string true "Till UUID"
// @Success      200  {object} dto.TillResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/tills/{till_id} [get]
func (h *TillsHandler) Get(c *gin.Context) {
	tillID, ok := pathUUID(c, "till_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), tillID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByStore godoc
// @Summary      List a store's till sessions, newest first
// @Tags         tills
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Success      200  {array} dto.TillResponse
// @Router       /v1/stores/{store_id}/tills [get]
func (h *TillsHandler) ListByStore(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListByStore(c.Request.Context(), storeID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
