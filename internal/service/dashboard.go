package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront-service/internal/model"
)

// TopProduct is a dashboard row: a product ranked by units sold
type TopProduct struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	TotalSold int             `json:"total_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DashboardStats aggregates the admin landing page numbers
type DashboardStats struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	NewOrdersCount    int64           `json:"new_orders_count"`
	ProductsCount     int64           `json:"products_count"`
	NewCustomersCount int64           `json:"new_customers_count"`
	TopProducts       []TopProduct    `json:"top_products"`
	RecentOrders      []model.Order   `json:"recent_orders"`
}

// DashboardService computes admin back-office aggregates
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats gathers total paid sales, order/product/customer counts, the top
// five sellers by quantity, and the ten most recent orders
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{TotalSales: decimal.Zero}

	var totalSales *string
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("payment_status = ?", model.PaymentStatusPaid).
		Select("SUM(total_price)").
		Scan(&totalSales).Error
	if err != nil {
		return nil, err
	}
	if totalSales != nil {
		total, err := decimal.NewFromString(*totalSales)
		if err == nil {
			stats.TotalSales = total
		}
	}

	err = s.db.WithContext(ctx).Model(&model.Order{}).
		Where("created_at >= ?", time.Now().Add(-24*time.Hour)).
		Count(&stats.NewOrdersCount).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&model.Product{}).
		Where("archived_at IS NULL").
		Count(&stats.ProductsCount).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ? AND created_at >= ?", model.RoleCustomer, time.Now().AddDate(0, 0, -30)).
		Count(&stats.NewCustomersCount).Error
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ProductID uint
		Name      string
		TotalSold int
		Revenue   string
	}
	err = s.db.WithContext(ctx).Model(&model.Product{}).
		Select("products.id AS product_id, products.name AS name, " +
			"SUM(order_items.quantity) AS total_sold, " +
			"SUM(order_items.quantity * order_items.price_at_purchase) AS revenue").
		Joins("JOIN product_variants ON product_variants.product_id = products.id").
		Joins("JOIN order_items ON order_items.product_variant_id = product_variants.id").
		Group("products.id, products.name").
		Order("total_sold DESC").
		Limit(5).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		revenue, err := decimal.NewFromString(row.Revenue)
		if err != nil {
			revenue = decimal.Zero
		}
		stats.TopProducts = append(stats.TopProducts, TopProduct{
			ProductID: row.ProductID,
			Name:      row.Name,
			TotalSold: row.TotalSold,
			Revenue:   revenue,
		})
	}

	err = s.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(10).
		Find(&stats.RecentOrders).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
