// Package orders implements checkout and the order/payment lifecycle on top of gorm.
package orders

import (
	"context"
	"fmt"
	"math/rand/v2"

	"fooddelight/logger"
	"fooddelight/metrics"
	"fooddelight/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PartnerPicker chooses one partner id from the candidates, or nil to leave the
// order unassigned.
type PartnerPicker func(candidates []uint) *uint

// RandomPartner picks uniformly at random.
func RandomPartner(candidates []uint) *uint {
	if len(candidates) == 0 {
		return nil
	}
	id := candidates[rand.IntN(len(candidates))]
	return &id
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *metrics.Metrics
	pick    PartnerPicker
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPartnerPicker(p PartnerPicker) Option {
	return func(s *Service) { s.pick = p }
}

func NewService(db *gorm.DB, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{db: db, log: log.Named("orders"), pick: RandomPartner}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) logger(ctx context.Context) *zap.Logger {
	if id := logger.GetRequestID(ctx); id != "" {
		return s.log.With(zap.String("request_id", id))
	}
	return s.log
}

// assignPartner reads the partner pool inside tx and lets the picker choose.
func (s *Service) assignPartner(tx *gorm.DB) (*uint, error) {
	var ids []uint
	if err := tx.Model(&models.DeliveryPartner{}).Order("partner_id").Pluck("partner_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return s.pick(ids), nil
}

func (s *Service) recordPlacement(method models.PaymentMethod, outcome string) {
	if s.metrics != nil {
		s.metrics.OrdersPlaced.WithLabelValues(string(method), outcome).Inc()
	}
}

func (s *Service) recordTransition(c *StatusChange) {
	if s.metrics == nil || c == nil {
		return
	}
	s.metrics.StatusTransitions.WithLabelValues(string(c.Previous), string(c.Status)).Inc()
	if c.PartnerRated {
		s.metrics.PartnerRatingBump.Inc()
	}
}
