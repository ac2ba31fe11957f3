package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielCanisOrtega/tienda-backend/internal/dto"
	"github.com/DanielCanisOrtega/tienda-backend/internal/service"
)

type StoresHandler struct{ svc service.StoreService }

func NewStoresHandler(svc service.StoreService) *StoresHandler { return &StoresHandler{svc: svc} }

// Create godoc
// @Summary      Create a store owned by the authenticated user
// @Tags         stores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateStoreRequest true "Store data"
// @Success      201  {object} dto.StoreResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/stores [post]
func (h *StoresHandler) Create(c *gin.Context) {
	var req dto.CreateStoreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List stores visible to the authenticated user
// @Description  Owned stores plus the store the user is employed at, if any.
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.StoreResponse
// @Router       /v1/stores [get]
func (h *StoresHandler) List(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one store with its employees
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Success      200  {object} dto.StoreResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/stores/{store_id} [get]
func (h *StoresHandler) Get(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), storeID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a store (owner only)
// @Tags         stores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Param        body body dto.UpdateStoreRequest true "Fields to change"
// @Success      200  {object} dto.StoreResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/stores/{store_id} [put]
func (h *StoresHandler) Update(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	var req dto.UpdateStoreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), storeID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a store and everything it owns (owner only)
// @Tags         stores
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/stores/{store_id} [delete]
func (h *StoresHandler) Delete(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), storeID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddEmployee godoc
// @Summary      Hire a user into the store (owner only)
// @Tags         stores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Param        body body dto.AddEmployeeRequest true "User to hire"
// @Success      201  {object} dto.EmployeeResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/employees [post]
func (h *StoresHandler) AddEmployee(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	var req dto.AddEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.AddEmployee(c.Request.Context(), storeID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListEmployees godoc
// @Summary      List a store's employees
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Success      200  {array} dto.EmployeeResponse
// @Router       /v1/stores/{store_id}/employees [get]
func (h *StoresHandler) ListEmployees(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListEmployees(c.Request.Context(), storeID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveEmployee godoc
// @Summary      Remove an employee from the store (owner only)
// @Tags         stores
// @Security     BearerAuth
// @Param        store_id path string true "Store UUID"
// @Param        user_id  path string true "Employee's user UUID"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/stores/{store_id}/employees/{user_id} [delete]
func (h *StoresHandler) RemoveEmployee(c *gin.Context) {
	storeID, ok := pathUUID(c, "store_id")
	if !ok {
		return
	}
	empUserID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	if err := h.svc.RemoveEmployee(c.Request.Context(), storeID, userID, empUserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
