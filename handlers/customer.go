package handlers

import (
	"errors"
	"net/http"

	"fooddelight/logger"
	"fooddelight/models"
	"fooddelight/orders"
	"fooddelight/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AddToCartRequest struct {
	ItemID uint `json:"item_id" binding:"required"`
}

type CheckoutRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required,payment_method"`
}

func cartView(cart session.Cart) gin.H {
	return gin.H{
		"items": cart.Items(),
		"count": cart.Count(),
		"total": cart.Total(),
	}
}

// GetCart shows the session cart
func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartView(currentSession(c).Cart))
}

// AddToCart adds one unit of a menu item, capped by its current stock
func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var item models.MenuItem
	if err := h.db.WithContext(c.Request.Context()).First(&item, req.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		respondError(c, err)
		return
	}

	s := currentSession(c)
	if err := s.Cart.Add(item.ItemID, item.Name, item.Price, item.Quantity); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "available": item.Quantity})
		return
	}
	if !h.saveSession(c, s) {
		return
	}
	c.JSON(http.StatusOK, cartView(s.Cart))
}

// IncrementCartItem adds one more unit. The stock cap is refreshed first so a
// restock made since the item was added is honoured.
func (h *Handler) IncrementCartItem(c *gin.Context) {
	h.changeCart(c, func(s *session.Session, itemID uint) error {
		if it, ok := s.Cart[itemID]; ok {
			var item models.MenuItem
			err := h.db.WithContext(c.Request.Context()).Select("item_id", "quantity").First(&item, itemID).Error
			switch {
			case err == nil:
				it.Available = item.Quantity
			case errors.Is(err, gorm.ErrRecordNotFound):
				delete(s.Cart, itemID)
				return session.ErrOutOfStock
			default:
				return err
			}
		}
		return s.Cart.Increment(itemID)
	})
}

func (h *Handler) DecrementCartItem(c *gin.Context) {
	h.changeCart(c, func(s *session.Session, itemID uint) error {
		return s.Cart.Decrement(itemID)
	})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	h.changeCart(c, func(s *session.Session, itemID uint) error {
		return s.Cart.Remove(itemID)
	})
}

func (h *Handler) changeCart(c *gin.Context, change func(*session.Session, uint) error) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	s := currentSession(c)
	err := change(s, itemID)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, session.ErrExceedsStock), errors.Is(err, session.ErrOutOfStock):
		// the cart may have been trimmed, keep what changed
		if h.saveSession(c, s) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	default:
		respondError(c, err)
		return
	}
	if !h.saveSession(c, s) {
		return
	}
	c.JSON(http.StatusOK, cartView(s.Cart))
}

// ClearCart empties the cart
func (h *Handler) ClearCart(c *gin.Context) {
	s := currentSession(c)
	s.Cart.Clear()
	if !h.saveSession(c, s) {
		return
	}
	c.JSON(http.StatusOK, cartView(s.Cart))
}

// Checkout places an order from the cart. The cart is only emptied once the
// order is committed; on any failure it is left as it was.
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := currentSession(c)
	items := s.Cart.Items()
	lines := make([]orders.CartLine, len(items))
	for i, it := range items {
		lines[i] = orders.CartLine{ItemID: it.ItemID, Name: it.Name, Price: it.Price, Quantity: it.Quantity}
	}
	placement := orders.PlaceOrderRequest{UserID: s.Identity.UserID, Method: req.PaymentMethod, Lines: lines}

	orderID, err := h.orders.PlaceOrder(c.Request.Context(), placement)
	if err != nil {
		respondError(c, err)
		return
	}

	// the order is committed; a stale cart must not hide its id from the client
	s.Cart.Clear()
	if err := h.sessions.Save(c.Request.Context(), s); err != nil {
		logger.GetGinLogger(c).Warn("cart not cleared after checkout",
			zap.Uint("order_id", orderID), zap.Error(err))
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully",
		"order_id": orderID,
		"total":    placement.Total(),
	})
}

// GetMyOrders returns the customer's orders, newest first
func (h *Handler) GetMyOrders(c *gin.Context) {
	s := currentSession(c)
	var list []models.Order
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Partner").Preload("Payment").Preload("Items.MenuItem").
		Where("user_id = ?", s.Identity.UserID).
		Order("order_date DESC, order_id DESC").
		Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

// GetMyStats returns order count and delivered spending for the customer
func (h *Handler) GetMyStats(c *gin.Context) {
	stats, err := h.reports.UserStats(c.Request.Context(), currentSession(c).Identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
