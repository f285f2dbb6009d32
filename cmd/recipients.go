package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planetary-society/usaspending-orm-sub000/search"
)

var (
	recipientKeyword   string
	recipientAwardType string
	recipientLimit     int
	recipientCountOnly bool
	recipientSort      string
	recipientOrder     string
)

// recipientsCmd represents the recipients command
var recipientsCmd = &cobra.Command{
	Use:   "recipients",
	Short: "Search award recipients",
	Long: `Search recipients by name, UEI or DUNS, optionally narrowed to one
award type group, e.g.:

  usaspending recipients --keyword "jet propulsion" --award-type contracts`,
	RunE: runRecipients,
}

func init() {
	recipientsCmd.Flags().StringVarP(&recipientKeyword, "keyword", "k", "", "recipient name, UEI or DUNS")
	recipientsCmd.Flags().StringVar(&recipientAwardType, "award-type", "all", "award type group (all, contracts, grants, loans, direct_payments, other_financial_assistance)")
	recipientsCmd.Flags().IntVarP(&recipientLimit, "limit", "l", 25, "maximum number of recipients to fetch")
	recipientsCmd.Flags().BoolVar(&recipientCountOnly, "count", false, "print the recipient count only")
	recipientsCmd.Flags().StringVar(&recipientSort, "sort", "amount", "sort field (name, duns, amount)")
	recipientsCmd.Flags().StringVar(&recipientOrder, "order", "desc", "sort direction (asc, desc)")

	rootCmd.AddCommand(recipientsCmd)
}

func runRecipients(cmd *cobra.Command, args []string) error {
	s := search.Recipients(apiClient, logger).
		AwardType(search.RecipientAwardType(recipientAwardType)).
		OrderBy(recipientSort, recipientOrder)

	if recipientKeyword != "" {
		s = s.Keyword(recipientKeyword)
	}

	ctx := context.Background()

	if recipientCountOnly {
		count, err := s.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Println(count)
		return nil
	}

	recipients, err := s.Limit(recipientLimit).All(ctx)
	if err != nil {
		return err
	}

	if len(recipients) == 0 {
		fmt.Println("No recipients found matching the criteria.")
		return nil
	}

	fmt.Printf("\nFound %d recipients:\n", len(recipients))
	fmt.Println(strings.Repeat("-", 80))

	for _, r := range recipients {
		fmt.Printf("• %s  $%.2f\n", r.Name, r.Amount)
		if r.UEI != "" || r.DUNS != "" {
			fmt.Printf("  UEI: %s  DUNS: %s\n", r.UEI, r.DUNS)
		}
		if len(r.BusinessTypes) > 0 {
			fmt.Printf("  Types: %s\n", strings.Join(r.BusinessTypes, ", "))
		}
	}

	return nil
}
