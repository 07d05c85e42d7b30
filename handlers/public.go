package handlers

import (
	"net/http"

	"fooddelight/models"
	"fooddelight/statemachine"

	"github.com/gin-gonic/gin"
)

// ListRestaurants returns all restaurants, best rated first (public)
func (h *Handler) ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := h.db.WithContext(c.Request.Context()).
		Order("rating IS NULL, rating DESC, rest_id").
		Find(&restaurants).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

// GetMenu returns the in-stock items of a restaurant (public)
func (h *Handler) GetMenu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	db := h.db.WithContext(c.Request.Context())
	var restaurant models.Restaurant
	if err := db.First(&restaurant, id).Error; err != nil {
		respondError(c, err)
		return
	}

	var items []models.MenuItem
	if err := db.Where("rest_id = ? AND quantity > 0", id).Order("item_id").Find(&items).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant,
		"count":      len(items),
		"menu":       items,
	})
}

// GetStateMachineInfo documents the order lifecycle
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"description": "Order lifecycle. Partners move their orders forward; the admin may also cancel before delivery.",
		"states": []models.OrderStatus{
			models.StatusPlaced,
			models.StatusOutForDelivery,
			models.StatusDelivered,
			models.StatusCancelled,
		},
		"transitions": statemachine.GetAllTransitions(),
		"payment_rules": gin.H{
			"Delivered": "UPI and Card payments become Paid; COD stays as collected by the partner",
			"Cancelled": "payment status is left unchanged unless the admin sets it",
		},
	})
}

// Health reports whether the database answers
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "FoodDelight Order API",
	})
}
