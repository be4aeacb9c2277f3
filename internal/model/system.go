package model

// DashboardStats backs the admin dashboard
type DashboardStats struct {
	TotalUsers     int64            `json:"totalUsers"`
	ActiveUsers    int64            `json:"activeUsers"`
	TotalProducts  int64            `json:"totalProducts"`
	ActiveProducts int64            `json:"activeProducts"`
	TotalOrders    int64            `json:"totalOrders"`
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	TotalRevenue   float64          `json:"totalRevenue"`
	OpenTickets    int64            `json:"openTickets"`
	OpenFeedback   int64            `json:"openFeedback"`
	RecentOrders   []*Order         `json:"recentOrders"`
}
