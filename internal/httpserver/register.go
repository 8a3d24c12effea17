package httpserver

import (
	"net/http"

	"sisera-crm/internal/forms"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// register handles the public self-registration form. The store defaults to
// the selected shop.
func (h *handlers) register(c *gin.Context) {
	var form forms.RegistrationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badJSON(c)
		return
	}
	if form.Store == "" {
		form.Store = h.deps.Shop.Selected()
	}
	form.Trim()
	if err := forms.Validate(form); err != nil {
		fieldErrors(c, err)
		return
	}

	created, err := h.deps.Customers.AddCustomer(c.Request.Context(), form.Fields())
	if err != nil {
		h.logger.Warn("registration failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"errors": forms.FieldErrors{forms.GeneralKey: forms.MsgGeneralError}})
		return
	}
	h.logger.Info("customer registered",
		zap.String("customer_id", created.ID),
		zap.String("store", string(created.Store)),
		zap.Bool("accept_marketing", form.AcceptMarketing))
	c.JSON(http.StatusCreated, gin.H{"message": forms.MsgRegistered, "customer": created})
}
