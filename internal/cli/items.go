package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// NewItemCmd создаёт группу команд для записей обработки.
func NewItemCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage processing items",
	}

	cmd.AddCommand(
		newItemListCmd(clientFn, outputFn),
		newItemShowCmd(clientFn, outputFn),
		newItemPurgeCmd(clientFn, outputFn),
	)

	return cmd
}

func newItemListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var status string
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List processing items",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			items, err := client.ListItems(ListItemsOpts{Status: status, MaxAge: maxAge})
			if err != nil {
				return err
			}

			headers := []string{"ID", "ORDER_ID", "STATUS", "PROCESSING_SEC", "CREATED"}
			rows := make([][]string, len(items))
			for i, item := range items {
				rows[i] = []string{item.ID, item.OrderID, item.Status,
					strconv.Itoa(item.ProcessingTime), item.Created}
			}

			out.Print(headers, rows, items)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (new, processing, completed, recovery, error)")
	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Only items created within this duration (e.g. 1h)")

	return cmd
}

func newItemShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show processing item details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			item, err := client.GetItem(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "ORDER_ID", "STATUS", "PROCESSING_SEC", "STARTED", "FINISHED"},
				[][]string{{item.ID, item.OrderID, item.Status,
					strconv.Itoa(item.ProcessingTime), item.Started, item.Finished}},
				item,
			)
			return nil
		},
	}
}

func newItemPurgeCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all processing items",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if !yes {
				return fmt.Errorf("refusing to purge without --yes")
			}

			if err := client.PurgeItems(); err != nil {
				return err
			}

			out.Success("All processing items deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")

	return cmd
}
