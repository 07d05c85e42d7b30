package handlers

import (
	"net/http"

	"fooddelight/models"
	"fooddelight/orders"
	"fooddelight/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AdminStatusRequest struct {
	Status        models.OrderStatus   `json:"status" binding:"required,order_status"`
	PaymentStatus models.PaymentStatus `json:"payment_status" binding:"omitempty,payment_status"`
}

// OverrideStatusRequest sets both statuses outright.
type OverrideStatusRequest struct {
	Status        models.OrderStatus   `json:"status" binding:"required,order_status"`
	PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required,payment_status"`
}

type DirectOrderRequest struct {
	UserID        uint                 `json:"user_id" binding:"required"`
	TotalAmt      decimal.Decimal      `json:"total_amt" binding:"gte=0"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
}

// AdminDashboard returns platform totals and recent orders
func (h *Handler) AdminDashboard(c *gin.Context) {
	d, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// AdminListOrders lists order summaries, optionally filtered by ?status=
func (h *Handler) AdminListOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": orders.ErrInvalidStatus.Error()})
		return
	}
	list, err := h.reports.OrderSummaries(c.Request.Context(), status, queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

// AdminGetOrder returns one order with its lines, customer, partner and payment
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var order models.Order
	if err := h.db.WithContext(c.Request.Context()).
		Preload("User").Preload("Partner").Preload("Payment").Preload("Items.MenuItem").
		First(&order, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AdminUpdateOrderStatus applies a state machine transition as admin
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req AdminStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	change, err := h.orders.Transition(c.Request.Context(), orders.TransitionRequest{
		OrderID: id,
		To:      req.Status,
		Actor:   statemachine.ActorAdmin,
		Payment: req.PaymentStatus,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "change": change})
}

// AdminOverrideOrderStatus sets order and payment status without the state
// machine, for correcting records
func (h *Handler) AdminOverrideOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	change, err := h.orders.UpdateOrderAndPaymentStatus(c.Request.Context(), id, req.Status, req.PaymentStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status overridden", "change": change})
}

// AdminCreateOrder records an order without a cart
func (h *Handler) AdminCreateOrder(c *gin.Context) {
	var req DirectOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.orders.CreateOrder(c.Request.Context(), orders.DirectOrderRequest{
		UserID: req.UserID,
		Total:  req.TotalAmt,
		Method: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order": order})
}

// AdminDeleteOrder removes an order and its lines
func (h *Handler) AdminDeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.deleteByID(c, &models.Order{}, id, "Order deleted")
}

// AdminListPayments lists every payment with its order and customer
func (h *Handler) AdminListPayments(c *gin.Context) {
	list, err := h.reports.Payments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "payments": list})
}

// AdminCollectPayment marks a payment as paid
func (h *Handler) AdminCollectPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.CollectPayment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment collected", "pay_id": id})
}

// AdminListUsers lists customers with what each has spent
func (h *Handler) AdminListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	var users []models.User
	if err := h.db.WithContext(ctx).Order("user_id").Find(&users).Error; err != nil {
		respondError(c, err)
		return
	}
	type userRow struct {
		models.User
		TotalSpent decimal.Decimal `json:"total_spent"`
	}
	rows := make([]userRow, len(users))
	for i, u := range users {
		spent, err := h.reports.TotalSpentByUser(ctx, u.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		rows[i] = userRow{User: u, TotalSpent: spent}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "users": rows})
}

// AdminDeleteUser removes a customer together with their orders
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.deleteByID(c, &models.User{}, id, "User deleted")
}

func (h *Handler) deleteByID(c *gin.Context, model any, id uint, msg string) {
	res := h.db.WithContext(c.Request.Context()).Delete(model, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
