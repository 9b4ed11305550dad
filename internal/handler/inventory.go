package handler

import (
	"net/http"

	"github.com/Phalatsane/wings-cafe/internal/dto"
	"github.com/Phalatsane/wings-cafe/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// AddStock godoc
// @Summary      Add stock to a product
// @Description  Increments the product quantity and records an immutable stock transaction.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id   path     string               true "Product ID"
// @Param        body body     dto.AddStockRequest  true "Units to add"
// @Success      200  {object} dto.StockTransactionMessageResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /products/{id}/add-stock [patch]
func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req dto.AddStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StockTransactionMessageResponse{
		Message:          "Stock added successfully",
		StockTransaction: *resp,
	})
}

func (h *InventoryHandler) ListStockTransactions(c *gin.Context) {
	resp, err := h.svc.ListStockTransactions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
