package mysql

import (
	"context"
	"database/sql"

	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
)

var orderSortColumns = map[string]string{
	"createdAt":   "created_at",
	"totalAmount": "total_amount",
	"orderNumber": "order_number",
	"orderStatus": "order_status",
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) interfaces.OrderRepository {
	return &orderRepository{db}
}

func orderColumns(order *model.Order) *columns {
	return (&columns{}).
		set("order_status", order.OrderStatus).
		set("payment_status", order.PaymentStatus).
		set("full_name", order.ShippingAddress.FullName).
		set("email", order.ShippingAddress.Email).
		set("total_amount", order.TotalAmount)
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	cols := orderColumns(order).
		set("id", order.ID).
		set("order_number", order.OrderNumber).
		set("user_id", order.UserID).
		set("created_at", order.CreatedAt)
	return insertRow(ctx, r.db, "orders", cols, order)
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := getDoc(ctx, r.db, "orders", "id", id, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	if err := getDoc(ctx, r.db, "orders", "order_number", orderNumber, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUser(ctx context.Context, userID string, page, limit int) ([]*model.Order, int64, error) {
	w := &where{}
	w.add("user_id = ?", userID)
	return listDocs[model.Order](ctx, r.db, "orders", w, "created_at DESC", page, limit)
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, int64, error) {
	w := &where{}
	if filter.Status != "" {
		w.add("order_status = ?", filter.Status)
	}
	w.search(filter.Search, "order_number", "full_name", "email")
	return listDocs[model.Order](ctx, r.db, "orders", w,
		orderBy(orderSortColumns, filter.SortField, filter.SortDesc), filter.Page, filter.Limit)
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return updateRow(ctx, r.db, "orders", order.ID, orderColumns(order), order)
}

func (r *orderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT order_status, COUNT(*) FROM orders GROUP BY order_status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// TotalRevenue sums every order that was not cancelled
func (r *orderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(total_amount) FROM orders WHERE order_status <> ?", model.OrderStatusCancelled).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}
