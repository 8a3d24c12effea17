package httpserver

import (
	"errors"
	"net/http"

	"sisera-crm/internal/domain"
	"sisera-crm/internal/forms"
	customersvc "sisera-crm/internal/service/customer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type customerListResponse struct {
	Customers []domain.Customer `json:"customers"`
	Count     int               `json:"count"`
	Total     int               `json:"total"`
	Shop      domain.Shop       `json:"shop"`
	IsLoading bool              `json:"isLoading"`
	Error     string            `json:"error,omitempty"`
}

type customerResponse struct {
	Customer *domain.Customer `json:"customer"`
}

// listCustomers reloads the registry and returns the selected shop's
// customers. A failed load still answers with the previous list and the
// error message.
func (h *handlers) listCustomers(c *gin.Context) {
	_ = h.deps.Customers.LoadCustomers(c.Request.Context())
	snap := h.deps.Customers.Snapshot()
	shop := h.deps.Shop.Selected()

	own := customersvc.FilterByShop(snap.Customers, shop)
	matched := customersvc.Search(own, c.Query("q"))
	c.JSON(http.StatusOK, customerListResponse{
		Customers: matched,
		Count:     len(matched),
		Total:     len(own),
		Shop:      shop,
		IsLoading: snap.IsLoading,
		Error:     snap.Error,
	})
}

func (h *handlers) refreshCustomers(c *gin.Context) {
	if err := h.deps.Customers.RefreshCustomers(c.Request.Context()); err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.deps.Customers.Snapshot())
}

func (h *handlers) createCustomer(c *gin.Context) {
	var form forms.CustomerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badJSON(c)
		return
	}
	form.Trim()
	if err := forms.Validate(form); err != nil {
		fieldErrors(c, err)
		return
	}
	created, err := h.deps.Customers.AddCustomer(c.Request.Context(), form.Fields(h.deps.Shop.Selected()))
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customerResponse{Customer: created})
}

func (h *handlers) onboardCustomer(c *gin.Context) {
	var form forms.OnboardingForm
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
		h.logger.Warn("onboarding insert failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"errors": forms.FieldErrors{forms.GeneralKey: forms.MsgSaveError}})
		return
	}
	c.JSON(http.StatusCreated, customerResponse{Customer: created})
}

func (h *handlers) getCustomer(c *gin.Context) {
	found, ok := h.deps.Customers.GetCustomer(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "klant niet gevonden"})
		return
	}
	c.JSON(http.StatusOK, customerResponse{Customer: &found})
}

func (h *handlers) updateCustomer(c *gin.Context) {
	var form forms.UpdateForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badJSON(c)
		return
	}
	if form.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "geen velden om bij te werken"})
		return
	}
	if err := forms.Validate(form); err != nil {
		fieldErrors(c, err)
		return
	}
	updated, err := h.deps.Customers.UpdateCustomer(c.Request.Context(), c.Param("id"), form.Fields())
	if err != nil {
		h.backendError(c, err)
		return
	}
	c.JSON(http.StatusOK, customerResponse{Customer: updated})
}

func (h *handlers) deleteCustomer(c *gin.Context) {
	if err := h.deps.Customers.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		h.backendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// backendError maps a registry failure to a response carrying the registry's
// error message.
func (h *handlers) backendError(c *gin.Context, err error) {
	msg := h.deps.Customers.Snapshot().Error
	if msg == "" {
		msg = customersvc.ErrorDetail(err)
	}
	switch {
	case errors.Is(err, domain.ErrStoreImmutable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Winkel kan niet gewijzigd worden"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	}
}

func badJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "ongeldige aanvraag"})
}

func fieldErrors(c *gin.Context, err error) {
	var fe forms.FieldErrors
	if errors.As(err, &fe) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fe})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "validatie mislukt"})
}
