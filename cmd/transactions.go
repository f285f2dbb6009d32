package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planetary-society/usaspending-orm-sub000/search"
)

var (
	txLimit     int
	txCountOnly bool
	txSort      string
	txOrder     string
)

// transactionsCmd represents the transactions command
var transactionsCmd = &cobra.Command{
	Use:   "transactions <award-id>",
	Short: "List transactions for an award",
	Long: `List the individual transactions recorded against one award, identified
by its generated internal ID, e.g.:

  usaspending transactions CONT_AWD_80NSSC20K0001_8000_-NONE-_-NONE-`,
	Args: cobra.ExactArgs(1),
	RunE: runTransactions,
}

func init() {
	transactionsCmd.Flags().IntVarP(&txLimit, "limit", "l", 25, "maximum number of transactions to fetch")
	transactionsCmd.Flags().BoolVar(&txCountOnly, "count", false, "print the transaction count only")
	transactionsCmd.Flags().StringVar(&txSort, "sort", "action_date", "server-side sort field")
	transactionsCmd.Flags().StringVar(&txOrder, "order", "desc", "sort direction (asc, desc)")

	rootCmd.AddCommand(transactionsCmd)
}

func runTransactions(cmd *cobra.Command, args []string) error {
	s := search.Transactions(apiClient, logger).
		ForAward(args[0]).
		OrderBy(txSort, txOrder)

	ctx := context.Background()

	if txCountOnly {
		count, err := s.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Println(count)
		return nil
	}

	transactions, err := s.Limit(txLimit).All(ctx)
	if err != nil {
		return err
	}

	if len(transactions) == 0 {
		fmt.Println("No transactions found for this award.")
		return nil
	}

	fmt.Printf("\nFound %d transactions:\n", len(transactions))
	fmt.Println(strings.Repeat("-", 80))

	for _, tx := range transactions {
		fmt.Printf("• %s  $%.2f", tx.ID, tx.Amount())
		if !tx.ActionDate.IsZero() {
			fmt.Printf("  (%s)", tx.ActionDate.Format("2006-01-02"))
		}
		fmt.Println()
		if tx.Description != "" {
			fmt.Printf("  %s\n", tx.Description)
		}
	}

	return nil
}
