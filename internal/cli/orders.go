package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewOrderCmd создаёт группу команд для работы с заказами.
func NewOrderCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage orders",
	}

	cmd.AddCommand(
		newOrderSubmitCmd(clientFn, outputFn),
		newOrderListCmd(clientFn, outputFn),
		newOrderShowCmd(clientFn, outputFn),
	)

	return cmd
}

func newOrderSubmitCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var id string
	var customer string
	var items []string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateOrderRequest{
				ID:       id,
				Customer: CustomerResponse{Name: customer},
			}

			for _, spec := range items {
				name := spec
				count := 1
				if parts := strings.SplitN(spec, "=", 2); len(parts) == 2 {
					n, err := strconv.Atoi(parts[1])
					if err != nil || n <= 0 {
						return fmt.Errorf("invalid item spec %q, expected NAME or NAME=COUNT", spec)
					}
					name = parts[0]
					count = n
				}
				req.Items = append(req.Items, LineItemResponse{Name: name, Count: count})
			}

			order, err := client.CreateOrder(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Order submitted: %s", order.ID))
			out.Print(
				[]string{"ID", "CUSTOMER", "ITEMS", "STATUS", "CREATED"},
				[][]string{orderRow(*order)},
				order,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Order ID (generated if not specified)")
	cmd.Flags().StringVar(&customer, "customer", "", "Customer name")
	cmd.Flags().StringSliceVar(&items, "item", nil, "Order item as NAME or NAME=COUNT (repeatable)")
	cmd.MarkFlagRequired("customer")
	cmd.MarkFlagRequired("item")

	return cmd
}

func newOrderListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			orders, total, err := client.ListOrders(ListOrdersOpts{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}

			headers := []string{"ID", "CUSTOMER", "ITEMS", "STATUS", "CREATED"}
			rows := make([][]string, len(orders))
			for i, o := range orders {
				rows[i] = orderRow(o)
			}

			out.Print(headers, rows, orders)
			out.Success(fmt.Sprintf("Total: %d", total))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of results to skip")

	return cmd
}

func newOrderShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show order details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			order, err := client.GetOrder(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "CUSTOMER", "ITEMS", "STATUS", "DUE_DATE", "CREATED"},
				[][]string{{order.ID, order.Customer.Name, itemsSummary(order.Items),
					order.Status, order.DueDate, order.Created}},
				order,
			)
			return nil
		},
	}
}

func orderRow(o OrderResponse) []string {
	return []string{o.ID, o.Customer.Name, itemsSummary(o.Items), o.Status, o.Created}
}

func itemsSummary(items []LineItemResponse) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s x%d", item.Name, item.Count)
	}
	return strings.Join(parts, ", ")
}
