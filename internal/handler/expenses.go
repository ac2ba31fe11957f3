package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/service"
)

type ExpensesHandler struct{ svc service.ExpenseService }

func NewExpensesHandler(svc service.ExpenseService) *ExpensesHandler {
	return &ExpensesHandler{svc: svc}
}

// Record godoc
// @Summary      Record an expense against the open till
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Param        body body dto.RecordExpenseRequest true "Expense data"
// @Success      201  {object} dto.ExpenseResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/expenses [post]
func (h *ExpensesHandler) Record(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	var req dto.RecordExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), storeID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List a store's expenses, newest first
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Success      200  {array} dto.ExpenseResponse
// @Router       /v1/stores/{store_id}/expenses [get]
func (h *ExpensesHandler) List(c *gin.Context) {
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

// ByCategory godoc
// @Summary      Summarize expenses grouped by category
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Success      200  {array} dto.CategoryTotal
// @Router       /v1/stores/{store_id}/expenses/by-category [get]
func (h *ExpensesHandler) ByCategory(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.SummarizeByCategory(c.Request.Context(), storeID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
