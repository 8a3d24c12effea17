package httpserver

import (
	"net/http"

	"sisera-crm/internal/service/dashboard"
	shopsvc "sisera-crm/internal/service/shop"

	"github.com/gin-gonic/gin"
)

type dashboardResponse struct {
	dashboard.Stats
	Error string `json:"error,omitempty"`
}

func (h *handlers) dashboard(c *gin.Context) {
	_ = h.deps.Customers.LoadCustomers(c.Request.Context())
	snap := h.deps.Customers.Snapshot()
	shop := h.deps.Shop.Selected()

	stats := dashboard.Compute(snap.Customers, shop, h.deps.Now())
	stats.ShopName = shopsvc.ShopName(shop)
	c.JSON(http.StatusOK, dashboardResponse{Stats: stats, Error: snap.Error})
}
