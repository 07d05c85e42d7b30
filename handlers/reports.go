package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReportTopSpenders ranks customers by delivered order value
func (h *Handler) ReportTopSpenders(c *gin.Context) {
	rows, err := h.reports.TopSpenders(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "top_spenders": rows})
}

func (h *Handler) ReportBestRestaurants(c *gin.Context) {
	rows, err := h.reports.BestRatedRestaurants(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "restaurants": rows})
}

func (h *Handler) ReportRevenueByMethod(c *gin.Context) {
	rows, err := h.reports.RevenueByPaymentMethod(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue_by_method": rows})
}

func (h *Handler) ReportPartnerPerformance(c *gin.Context) {
	rows, err := h.reports.PartnerPerformance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "partners": rows})
}

func (h *Handler) ReportPopularItems(c *gin.Context) {
	rows, err := h.reports.PopularItems(c.Request.Context(), queryInt(c, "limit", 15))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "items": rows})
}

// ReportMonthlySales returns the last ?months= months of sales, zero-filled
func (h *Handler) ReportMonthlySales(c *gin.Context) {
	months := queryInt(c, "months", 6)
	if months > 36 {
		months = 36
	}
	rows, err := h.reports.MonthlySalesTrend(c.Request.Context(), months, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": rows})
}
