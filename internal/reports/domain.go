package reports

import "time"

// SalesSummary aggregates paid transactions over a date range.
type SalesSummary struct {
	TotalSalesCents    int64 `json:"total_sales_cents"`
	TransactionCount   int64 `json:"transaction_count"`
	VoidedCount        int64 `json:"voided_count"`
	AverageTicketCents int64 `json:"average_ticket_cents"`
}

// ProductSales is one row of the top-seller ranking.
type ProductSales struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	QtySold      int64  `json:"qty_sold"`
	RevenueCents int64  `json:"revenue_cents"`
}

// Dashboard is the composite view the POS frontend renders on its home
// screen. All sections cover the same date range and the same access scope.
type Dashboard struct {
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
	Sales        SalesSummary   `json:"sales"`
	TopProducts  []ProductSales `json:"top_products"`
	NewCustomers int64          `json:"new_customers"`
}
