package handler

import (
	"context"
	"net/http"

	"github.com/Phalatsane/wings-cafe/internal/dto"

	"github.com/gin-gonic/gin"
)

// DataSource serves the combined products + sales dump.
type DataSource interface {
	Data(ctx context.Context) (*dto.DataResponse, error)
}

// Data handles GET /api/data.
func Data(src DataSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := src.Data(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
