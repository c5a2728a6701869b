package handler

import (
	"github.com/gin-gonic/gin"

	"cloudquote/internal/alicloud"
)

// RegionHandler serves the static region catalog.
type RegionHandler struct{}

func NewRegionHandler() *RegionHandler { return &RegionHandler{} }

// List returns every region quotations can target.
//
// GET /api/v1/regions
func (h *RegionHandler) List(c *gin.Context) {
	respondOK(c, alicloud.Regions)
}
