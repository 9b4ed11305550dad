package handler

import (
	"net/http"

	"github.com/Phalatsane/wings-cafe/internal/dto"
	"github.com/Phalatsane/wings-cafe/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// List godoc
// @Summary      List sales
// @Description  Every recorded sale with the current product name and price ("Unknown" and 0 for deleted products).
// @Tags         sales
// @Produce      json
// @Success      200  {array}  dto.SaleListItem
// @Router       /sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Record godoc
// @Summary      Record a sale
// @Description  Decrements product stock. Fails without changes when stock is insufficient.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body body     dto.RecordSaleRequest true "Product and quantity"
// @Success      201  {object} dto.SaleMessageResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /sales [post]
func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SaleMessageResponse{Message: "Sale recorded successfully", Sale: *resp})
}

// Update godoc
// @Summary      Correct a sale
// @Description  Returns the old quantity to the old product, then charges the new quantity to the target product.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id   path     string                true "Sale ID"
// @Param        body body     dto.UpdateSaleRequest true "New quantity and optional product"
// @Success      200  {object} dto.SaleMessageResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /sales/{id} [patch]
func (h *SalesHandler) Update(c *gin.Context) {
	var req dto.UpdateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SaleMessageResponse{Message: "Sale updated successfully", Sale: *resp})
}

// Delete godoc
// @Summary      Delete a sale
// @Description  Removes the sale and restores its quantity to the product, if the product still exists.
// @Tags         sales
// @Produce      json
// @Param        id   path     string true "Sale ID"
// @Success      200  {object} dto.MessageResponse
// @Failure      404  {object} apierror.APIError
// @Router       /sales/{id} [delete]
func (h *SalesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Sale deleted successfully"})
}
