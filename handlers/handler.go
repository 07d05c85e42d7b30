// Package handlers implements the HTTP API on top of the order service, the
// reporting queries and the session store.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fooddelight/config"
	"fooddelight/logger"
	"fooddelight/middleware"
	"fooddelight/orders"
	"fooddelight/reports"
	"fooddelight/session"
	"fooddelight/statemachine"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db       *gorm.DB
	orders   *orders.Service
	reports  *reports.Reports
	sessions session.Store
	auth     *middleware.Auth
	admin    config.AdminConfig
}

func New(db *gorm.DB, svc *orders.Service, store session.Store, auth *middleware.Auth, admin config.AdminConfig) *Handler {
	return &Handler{
		db:       db,
		orders:   svc,
		reports:  reports.New(db),
		sessions: store,
		auth:     auth,
		admin:    admin,
	}
}

// paramID parses a positive numeric path parameter, writing a 400 when it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// respondError maps domain and storage errors onto status codes.
func respondError(c *gin.Context, err error) {
	var stock *orders.StockError
	var transition *statemachine.TransitionError
	switch {
	case errors.As(err, &stock):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "item_id": stock.ItemID})
	case errors.As(err, &transition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             err.Error(),
			"current_status":    transition.From,
			"valid_next_states": statemachine.ValidTransitionsFrom(transition.From),
		})
	case errors.Is(err, orders.ErrNotCollectable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrInvalidPaymentMethod),
		errors.Is(err, orders.ErrInvalidLine),
		errors.Is(err, orders.ErrInvalidAmount),
		errors.Is(err, orders.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrNotAssigned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrUserNotFound),
		errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, orders.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case isViolation(err, gorm.ErrDuplicatedKey, "UNIQUE constraint failed"):
		c.JSON(http.StatusConflict, gin.H{"error": "Record already exists"})
	case isViolation(err, gorm.ErrForeignKeyViolated, "FOREIGN KEY constraint failed"):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Referenced record does not exist"})
	case isViolation(err, gorm.ErrCheckConstraintViolated, "CHECK constraint failed"):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Value out of allowed range"})
	default:
		logger.GetGinLogger(c).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// isViolation matches a translated gorm error, falling back to the sqlite
// message for dialects that do not translate every constraint kind.
func isViolation(err, sentinel error, sqliteMsg string) bool {
	return errors.Is(err, sentinel) || strings.Contains(err.Error(), sqliteMsg)
}

// currentSession is the session loaded by the auth middleware.
func currentSession(c *gin.Context) *session.Session {
	return middleware.CurrentSession(c)
}

func (h *Handler) saveSession(c *gin.Context, s *session.Session) bool {
	if err := h.sessions.Save(c.Request.Context(), s); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has ended, please log in again"})
			return false
		}
		logger.GetGinLogger(c).Error("save session", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
		return false
	}
	return true
}
