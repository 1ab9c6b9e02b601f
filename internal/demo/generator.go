package demo

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/orderflow/internal/domain"
)

const (
	poolSize     = 20
	maxLineItems = 5
	maxItemCount = 50
	maxDueDays   = 120
)

// Generator создаёт случайные заказы из фиксированных пулов
// покупателей и товаров.
type Generator struct {
	customers []domain.Customer
	products  []domain.LineItem
}

// NewGenerator создаёт Generator с пулами покупателей и товаров.
func NewGenerator() *Generator {
	g := &Generator{
		customers: make([]domain.Customer, poolSize),
		products:  make([]domain.LineItem, poolSize),
	}
	for i := range g.customers {
		g.customers[i] = domain.Customer{
			ID:   uuid.NewString(),
			Name: fmt.Sprintf("Customer Name #%d", i),
		}
	}
	for i := range g.products {
		g.products[i] = domain.LineItem{
			ID:   uuid.NewString(),
			Name: fmt.Sprintf("Product Item #%d", i),
		}
	}
	return g
}

// NewOrder возвращает случайный заказ: покупатель и позиции из пулов,
// срок исполнения в пределах maxDueDays дней.
func (g *Generator) NewOrder() domain.Order {
	items := make([]domain.LineItem, 1+rand.IntN(maxLineItems))
	for i := range items {
		item := g.products[rand.IntN(len(g.products))]
		item.Count = 1 + rand.IntN(maxItemCount)
		items[i] = item
	}

	due := time.Now().UTC().AddDate(0, 0, 1+rand.IntN(maxDueDays)).Truncate(24 * time.Hour)

	return domain.Order{
		ID:       uuid.NewString(),
		Created:  time.Now().UTC(),
		Customer: g.customers[rand.IntN(len(g.customers))],
		Items:    items,
		DueDate:  &due,
		Status:   domain.OrderStatusNew,
	}
}

// NewOrders возвращает n случайных заказов.
func (g *Generator) NewOrders(n int) []domain.Order {
	orders := make([]domain.Order, n)
	for i := range orders {
		orders[i] = g.NewOrder()
	}
	return orders
}
