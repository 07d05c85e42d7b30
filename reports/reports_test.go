package reports

import (
	"context"
	"testing"
	"time"

	"fooddelight/models"
	"fooddelight/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type seed struct {
	db          *gorm.DB
	asha, vik   models.User
	ravi, kiran models.DeliveryPartner
	spice, wok  models.Restaurant
	biryani     models.MenuItem
	noodles     models.MenuItem
}

// order inserts an order with one line and a payment of the given method/status.
func (s *seed) order(t *testing.T, user models.User, partner *models.DeliveryPartner, item models.MenuItem, qty int,
	status models.OrderStatus, method models.PaymentMethod, pay models.PaymentStatus, at time.Time) models.Order {
	t.Helper()
	total := item.Price.Mul(decimal.NewFromInt(int64(qty)))
	p := models.Payment{Method: method, Amount: total, Status: pay}
	require.NoError(t, s.db.Create(&p).Error)
	o := models.Order{OrderDate: at, TotalAmt: total, Status: status, UserID: user.UserID, PaymentID: &p.PayID}
	if partner != nil {
		o.PartnerID = &partner.PartnerID
	}
	require.NoError(t, s.db.Create(&o).Error)
	require.NoError(t, s.db.Create(&models.OrderItem{OrderID: o.OrderID, MenuItemID: item.ItemID, Quantity: qty, Price: item.Price}).Error)
	return o
}

func newSeed(t *testing.T) *seed {
	db := testutil.NewDB(t)
	s := &seed{db: db}
	s.asha = testutil.CreateUser(t, db, "Asha", "asha@example.com", "9000000001")
	s.vik = testutil.CreateUser(t, db, "Vik", "vik@example.com", "9000000002")
	s.ravi = testutil.CreatePartner(t, db, "Ravi", "9100000001", "4.5")
	s.kiran = testutil.CreatePartner(t, db, "Kiran", "9100000002", "")
	s.spice = testutil.CreateRestaurant(t, db, "Spice Hub", "4.5")
	s.wok = testutil.CreateRestaurant(t, db, "Wok Express", "3.5")
	testutil.CreateRestaurant(t, db, "New Place", "")
	s.biryani = testutil.CreateMenuItem(t, db, s.spice.RestID, "Biryani", "12.50", 50)
	s.noodles = testutil.CreateMenuItem(t, db, s.wok.RestID, "Noodles", "6.00", 50)
	return s
}

func TestDashboardAndSpending(t *testing.T) {
	s := newSeed(t)
	ctx := context.Background()
	r := New(s.db)
	now := time.Now().UTC()

	s.order(t, s.asha, &s.ravi, s.biryani, 2, models.StatusDelivered, models.MethodUPI, models.PaymentPaid, now.Add(-3*time.Hour))
	s.order(t, s.asha, &s.ravi, s.noodles, 1, models.StatusDelivered, models.MethodCOD, models.PaymentPending, now.Add(-2*time.Hour))
	s.order(t, s.vik, &s.kiran, s.noodles, 3, models.StatusPlaced, models.MethodCard, models.PaymentPending, now.Add(-time.Hour))
	last := s.order(t, s.vik, nil, s.biryani, 1, models.StatusCancelled, models.MethodCard, models.PaymentPending, now)

	d, err := r.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.TotalOrders)
	assert.Equal(t, int64(2), d.TotalUsers)
	assert.Equal(t, int64(3), d.TotalRestaurants)
	assert.Equal(t, int64(2), d.TotalPartners)
	assert.True(t, dec("31").Equal(d.Revenue), "revenue %s", d.Revenue)
	require.True(t, d.AvgRestaurantRating.Valid)
	assert.True(t, dec("4").Equal(d.AvgRestaurantRating.Decimal))
	require.Len(t, d.RecentOrders, 4)
	assert.Equal(t, last.OrderID, d.RecentOrders[0].OrderID)
	assert.Nil(t, d.RecentOrders[0].DeliveryPartner)
	require.NotNil(t, d.RecentOrders[0].RestaurantName)
	assert.Equal(t, "Spice Hub", *d.RecentOrders[0].RestaurantName)

	stats, err := r.UserStats(ctx, s.asha.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.True(t, dec("25").Equal(stats.TotalSpent), "only delivered and paid orders count")

	total, err := r.TotalSpentByUser(ctx, s.asha.UserID)
	require.NoError(t, err)
	assert.True(t, dec("31").Equal(total))

	empty, err := r.UserStats(ctx, 999)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalOrders)
	assert.True(t, empty.TotalSpent.IsZero())
}

func TestAnalytics(t *testing.T) {
	s := newSeed(t)
	ctx := context.Background()
	r := New(s.db)
	now := time.Now().UTC()

	s.order(t, s.asha, &s.ravi, s.biryani, 2, models.StatusDelivered, models.MethodUPI, models.PaymentPaid, now)
	s.order(t, s.vik, &s.ravi, s.noodles, 5, models.StatusDelivered, models.MethodCOD, models.PaymentPaid, now)
	s.order(t, s.vik, &s.kiran, s.biryani, 1, models.StatusOutForDelivery, models.MethodCard, models.PaymentPending, now)

	spenders, err := r.TopSpenders(ctx, 10)
	require.NoError(t, err)
	require.Len(t, spenders, 2)
	assert.Equal(t, "Vik", spenders[0].Name)
	assert.True(t, dec("30").Equal(spenders[0].TotalSpent))
	assert.Equal(t, int64(1), spenders[0].OrderCount)

	rated, err := r.BestRatedRestaurants(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rated, 2, "unrated restaurants are excluded")
	assert.Equal(t, "Spice Hub", rated[0].Name)
	assert.Equal(t, int64(2), rated[0].OrderCount)

	byMethod, err := r.RevenueByPaymentMethod(ctx)
	require.NoError(t, err)
	require.Len(t, byMethod, 2)
	assert.Equal(t, "COD", byMethod[0].Method)
	assert.True(t, dec("30").Equal(byMethod[0].Revenue))

	perf, err := r.PartnerPerformance(ctx)
	require.NoError(t, err)
	require.Len(t, perf, 2)
	assert.Equal(t, "Ravi", perf[0].Name)
	assert.Equal(t, int64(2), perf[0].Delivered)
	assert.True(t, dec("55").Equal(perf[0].DeliveredValue))
	assert.Equal(t, int64(1), perf[1].TotalOrders)
	assert.Zero(t, perf[1].Delivered)

	items, err := r.PopularItems(ctx, 15)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Noodles", items[0].Name)
	assert.Equal(t, int64(5), items[0].UnitsSold)
	assert.Equal(t, "Wok Express", items[0].RestaurantName)

	ps, err := r.PartnerStats(ctx, s.ravi.PartnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ps.TotalOrders)
	assert.Equal(t, int64(2), ps.Delivered)
	assert.True(t, dec("55").Equal(ps.TotalValue))
	assert.True(t, dec("27.5").Equal(ps.AvgOrderValue))
	require.Len(t, ps.Recent, 2)
	assert.NotNil(t, ps.Recent[0].User)
}

func TestMonthlySalesTrend(t *testing.T) {
	s := newSeed(t)
	r := New(s.db)
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	s.order(t, s.asha, nil, s.biryani, 1, models.StatusDelivered, models.MethodUPI, models.PaymentPaid, time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC))
	s.order(t, s.asha, nil, s.noodles, 1, models.StatusPlaced, models.MethodUPI, models.PaymentPending, time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC))
	s.order(t, s.vik, nil, s.noodles, 2, models.StatusDelivered, models.MethodCard, models.PaymentPaid, time.Date(2026, time.January, 20, 9, 0, 0, 0, time.UTC))
	s.order(t, s.vik, nil, s.noodles, 2, models.StatusDelivered, models.MethodCard, models.PaymentPaid, time.Date(2025, time.August, 1, 9, 0, 0, 0, time.UTC))

	trend, err := r.MonthlySalesTrend(context.Background(), 6, now)
	require.NoError(t, err)
	require.Len(t, trend, 6)
	assert.Equal(t, "2025-10", trend[0].Month)
	assert.Equal(t, "2026-03", trend[5].Month)

	assert.Equal(t, int64(2), trend[5].Orders)
	assert.Equal(t, int64(1), trend[5].Delivered)
	assert.True(t, dec("12.5").Equal(trend[5].Revenue))
	assert.True(t, dec("12").Equal(trend[3].Revenue))
	assert.Zero(t, trend[4].Orders)
	assert.Zero(t, trend[0].Orders)
}

func TestOrderSummariesAndPayments(t *testing.T) {
	s := newSeed(t)
	ctx := context.Background()
	r := New(s.db)
	now := time.Now().UTC()

	placed := s.order(t, s.asha, &s.ravi, s.biryani, 1, models.StatusPlaced, models.MethodUPI, models.PaymentPending, now.Add(-time.Minute))
	s.order(t, s.vik, &s.kiran, s.noodles, 1, models.StatusDelivered, models.MethodCard, models.PaymentPaid, now)
	orphan := models.Payment{Method: models.MethodCOD, Amount: dec("0"), Status: models.PaymentPending}
	require.NoError(t, s.db.Create(&orphan).Error)

	all, err := r.OrderSummaries(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	only, err := r.OrderSummaries(ctx, models.StatusPlaced, 0)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, placed.OrderID, only[0].OrderID)
	assert.Equal(t, "Asha", only[0].CustomerName)
	assert.True(t, dec("12.5").Equal(only[0].OrderAmount))

	payments, err := r.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	assert.Equal(t, orphan.PayID, payments[0].PayID)
	assert.Nil(t, payments[0].OrderID)
	require.NotNil(t, payments[2].CustomerName)
	assert.Equal(t, "Asha", *payments[2].CustomerName)
}
