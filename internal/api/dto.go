package api

import (
	"time"

	"github.com/shaiso/orderflow/internal/domain"
)

// Order DTOs

// CreateOrderRequest — запрос на создание заказа.
type CreateOrderRequest struct {
	ID       string            `json:"id,omitempty"`
	Customer domain.Customer   `json:"customer"`
	Items    []domain.LineItem `json:"items"`
	DueDate  *time.Time        `json:"due_date,omitempty"`
}

// Validate проверяет обязательные поля запроса.
func (r *CreateOrderRequest) Validate() string {
	if r.Customer.Name == "" {
		return "customer name is required"
	}
	if len(r.Items) == 0 {
		return "order must contain at least one item"
	}
	for _, item := range r.Items {
		if item.Name == "" {
			return "item name is required"
		}
		if item.Count <= 0 {
			return "item count must be positive"
		}
	}
	return ""
}

// OrderResponse — ответ с заказом.
type OrderResponse struct {
	ID       string             `json:"id"`
	Created  time.Time          `json:"created"`
	Customer domain.Customer    `json:"customer"`
	Items    []domain.LineItem  `json:"items"`
	DueDate  *time.Time         `json:"due_date,omitempty"`
	Status   domain.OrderStatus `json:"status"`
}

// OrderFromDomain конвертирует domain.Order в OrderResponse.
func OrderFromDomain(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:       o.ID,
		Created:  o.Created,
		Customer: o.Customer,
		Items:    o.Items,
		DueDate:  o.DueDate,
		Status:   o.Status,
	}
}

// ProcessingItem DTOs

// ItemResponse — ответ с записью обработки.
type ItemResponse struct {
	ID             string                  `json:"id"`
	OrderID        string                  `json:"order_id"`
	Created        time.Time               `json:"created"`
	Started        *time.Time              `json:"started,omitempty"`
	ProcessingTime int                     `json:"processing_time"`
	Finished       *time.Time              `json:"finished,omitempty"`
	Status         domain.ProcessingStatus `json:"status"`
}

// ItemFromDomain конвертирует domain.ProcessingItem в ItemResponse.
func ItemFromDomain(i domain.ProcessingItem) ItemResponse {
	return ItemResponse{
		ID:             i.ID,
		OrderID:        i.Order.ID,
		Created:        i.Created,
		Started:        i.Started,
		ProcessingTime: i.ProcessingTime,
		Finished:       i.Finished,
		Status:         i.Status,
	}
}
