package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// CustomerResponse — заказчик из API.
type CustomerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LineItemResponse — позиция заказа из API.
type LineItemResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// OrderResponse — заказ из API.
type OrderResponse struct {
	ID       string             `json:"id"`
	Created  string             `json:"created"`
	Customer CustomerResponse   `json:"customer"`
	Items    []LineItemResponse `json:"items"`
	DueDate  string             `json:"due_date,omitempty"`
	Status   string             `json:"status"`
}

// ItemResponse — запись обработки из API.
type ItemResponse struct {
	ID             string `json:"id"`
	OrderID        string `json:"order_id"`
	Created        string `json:"created"`
	Started        string `json:"started,omitempty"`
	ProcessingTime int    `json:"processing_time"`
	Finished       string `json:"finished,omitempty"`
	Status         string `json:"status"`
}

// --- Request types ---

// CreateOrderRequest — создание заказа.
type CreateOrderRequest struct {
	ID       string             `json:"id,omitempty"`
	Customer CustomerResponse   `json:"customer"`
	Items    []LineItemResponse `json:"items"`
}

// ListOrdersOpts — параметры списка заказов.
type ListOrdersOpts struct {
	Limit  int
	Offset int
}

// ListItemsOpts — параметры списка записей обработки.
type ListItemsOpts struct {
	Status string
	MaxAge time.Duration
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для orderflow API.
type Client struct {
	http *resty.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second),
	}
}

// --- Orders ---

// CreateOrder отправляет новый заказ.
func (c *Client) CreateOrder(req CreateOrderRequest) (*OrderResponse, error) {
	var order OrderResponse
	if err := c.doData(resty.MethodPost, "/api/v1/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders возвращает список заказов.
func (c *Client) ListOrders(opts ListOrdersOpts) ([]OrderResponse, int, error) {
	params := url.Values{}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}
	if opts.Offset > 0 {
		params.Set("offset", fmt.Sprintf("%d", opts.Offset))
	}

	var orders []OrderResponse
	total, err := c.list("/api/v1/orders", params, &orders)
	return orders, total, err
}

// GetOrder возвращает заказ по ID.
func (c *Client) GetOrder(id string) (*OrderResponse, error) {
	var order OrderResponse
	if err := c.doData(resty.MethodGet, "/api/v1/orders/"+id, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// --- Processing items ---

// ListItems возвращает записи обработки.
func (c *Client) ListItems(opts ListItemsOpts) ([]ItemResponse, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.MaxAge > 0 {
		params.Set("max_age", opts.MaxAge.String())
	}

	var items []ItemResponse
	_, err := c.list("/api/v1/items", params, &items)
	return items, err
}

// GetItem возвращает запись обработки по ID.
func (c *Client) GetItem(id string) (*ItemResponse, error) {
	var item ItemResponse
	if err := c.doData(resty.MethodGet, "/api/v1/items/"+id, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// PurgeItems удаляет все записи обработки.
func (c *Client) PurgeItems() error {
	resp, err := c.http.R().
		SetError(&errorResponse{}).
		Delete("/api/v1/items")
	if err != nil {
		return err
	}
	return checkError(resp)
}

// --- HTTP helpers ---

func (c *Client) list(path string, params url.Values, result any) (int, error) {
	var lr listResponse

	resp, err := c.http.R().
		SetQueryParamsFromValues(params).
		SetResult(&lr).
		SetError(&errorResponse{}).
		Get(path)
	if err != nil {
		return 0, err
	}
	if err := checkError(resp); err != nil {
		return 0, err
	}

	if len(lr.Data) > 0 {
		if err := json.Unmarshal(lr.Data, result); err != nil {
			return 0, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return lr.Total, nil
}

func (c *Client) doData(method, path string, body any, result any) error {
	var dr dataResponse

	req := c.http.R().
		SetResult(&dr).
		SetError(&errorResponse{})
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if err := checkError(resp); err != nil {
		return err
	}

	if result != nil && len(dr.Data) > 0 {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func checkError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}

	if er, ok := resp.Error().(*errorResponse); ok && er.Error.Code != "" {
		return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
	}
	return fmt.Errorf("API error: HTTP %d", resp.StatusCode())
}
