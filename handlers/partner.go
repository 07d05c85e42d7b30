package handlers

import (
	"net/http"
	"sort"

	"fooddelight/models"
	"fooddelight/orders"
	"fooddelight/statemachine"

	"github.com/gin-gonic/gin"
)

// partnerStatusRank orders a partner's worklist: work in hand first.
var partnerStatusRank = map[models.OrderStatus]int{
	models.StatusPlaced:         0,
	models.StatusOutForDelivery: 1,
	models.StatusDelivered:      2,
}

func rankOf(s models.OrderStatus) int {
	if r, ok := partnerStatusRank[s]; ok {
		return r
	}
	return len(partnerStatusRank)
}

// GetAssignedOrders returns orders assigned to the logged-in partner
func (h *Handler) GetAssignedOrders(c *gin.Context) {
	partnerID := currentSession(c).Identity.PartnerID
	var list []models.Order
	if err := h.db.WithContext(c.Request.Context()).
		Preload("User").Preload("Payment").Preload("Items.MenuItem").
		Where("partner_id = ?", partnerID).
		Order("order_date DESC, order_id DESC").
		Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	sort.SliceStable(list, func(i, j int) bool {
		return rankOf(list[i].Status) < rankOf(list[j].Status)
	})
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

// StartDelivery moves an assigned order from Placed to Out for Delivery
func (h *Handler) StartDelivery(c *gin.Context) {
	h.partnerTransition(c, models.StatusOutForDelivery)
}

// DeliverOrder completes an assigned order
func (h *Handler) DeliverOrder(c *gin.Context) {
	h.partnerTransition(c, models.StatusDelivered)
}

func (h *Handler) partnerTransition(c *gin.Context, to models.OrderStatus) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	change, err := h.orders.Transition(c.Request.Context(), orders.TransitionRequest{
		OrderID:   orderID,
		To:        to,
		Actor:     statemachine.ActorPartner,
		PartnerID: currentSession(c).Identity.PartnerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "change": change})
}

// CollectCash records cash received for a COD order
func (h *Handler) CollectCash(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.CollectCashPayment(c.Request.Context(), orderID, currentSession(c).Identity.PartnerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cash collected", "order_id": orderID, "payment_status": models.PaymentPaid})
}

// GetPartnerStats summarises the partner's deliveries
func (h *Handler) GetPartnerStats(c *gin.Context) {
	stats, err := h.reports.PartnerStats(c.Request.Context(), currentSession(c).Identity.PartnerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
