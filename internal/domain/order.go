package domain

import (
	"time"
)

// Customer — покупатель, оформивший заказ.
type Customer struct {
	// ID — уникальный идентификатор покупателя.
	ID string `json:"id"`

	// Name — отображаемое имя.
	Name string `json:"name"`
}

// LineItem — позиция заказа.
type LineItem struct {
	// ID — идентификатор товара.
	ID string `json:"id"`

	// Name — название товара.
	Name string `json:"name"`

	// Count — количество единиц.
	Count int `json:"count,omitempty"`
}

// Order — заказ клиента на обработку.
//
// Заказ неизменяем после создания, кроме поля Status: его обновляет
// подписчик статусных сообщений по мере продвижения обработки.
// ProcessingItem ссылается на заказ, но не дублирует его жизненный цикл.
type Order struct {
	// ID — уникальный идентификатор заказа. Задаётся отправителем,
	// глобально уникален.
	ID string `json:"id"`

	// Created — время создания заказа.
	Created time.Time `json:"created"`

	// Customer — покупатель.
	Customer Customer `json:"customer"`

	// Items — позиции заказа.
	Items []LineItem `json:"items"`

	// DueDate — срок исполнения. Nil, если не задан.
	DueDate *time.Time `json:"due_date,omitempty"`

	// Status — текущий статус заказа.
	Status OrderStatus `json:"status"`
}
