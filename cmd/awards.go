package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planetary-society/usaspending-orm-sub000/filter"
	"github.com/planetary-society/usaspending-orm-sub000/models"
	"github.com/planetary-society/usaspending-orm-sub000/search"
)

var (
	awardType   string
	fiscalYear  int
	agencyName  string
	keywords    []string
	awardLimit  int
	countOnly   bool
	filterExpr  string
	sortField   string
	sortOrder   string
	showDetails bool
)

// awardsCmd represents the awards command
var awardsCmd = &cobra.Command{
	Use:   "awards",
	Short: "Search federal awards",
	Long: `Search awards by type, fiscal year, agency and keywords. Results can
be narrowed further client-side with an expression filter, e.g.:

  usaspending awards --type contracts --fiscal-year 2024 \
      --agency "National Aeronautics and Space Administration" \
      --filter 'Award.Amount > 1000000'`,
	RunE: runAwards,
}

func init() {
	awardsCmd.Flags().StringVarP(&awardType, "type", "t", "contracts", "award type (contracts, idvs, grants, loans, direct-payments, other)")
	awardsCmd.Flags().IntVarP(&fiscalYear, "fiscal-year", "y", 0, "restrict to one federal fiscal year")
	awardsCmd.Flags().StringVarP(&agencyName, "agency", "a", "", "awarding toptier agency name")
	awardsCmd.Flags().StringSliceVarP(&keywords, "keywords", "k", nil, "keyword filters")
	awardsCmd.Flags().IntVarP(&awardLimit, "limit", "l", 25, "maximum number of awards to fetch")
	awardsCmd.Flags().BoolVar(&countOnly, "count", false, "print the match count only")
	awardsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "client-side filter expression")
	awardsCmd.Flags().StringVar(&sortField, "sort", "", "server-side sort field")
	awardsCmd.Flags().StringVar(&sortOrder, "order", "desc", "sort direction (asc, desc)")
	awardsCmd.Flags().BoolVar(&showDetails, "details", false, "show full award details")

	rootCmd.AddCommand(awardsCmd)
}

func runAwards(cmd *cobra.Command, args []string) error {
	s, err := awardSearchByType(awardType)
	if err != nil {
		return err
	}

	if fiscalYear != 0 {
		s = s.FiscalYear(fiscalYear)
	}
	if agencyName != "" {
		s = s.Agency(agencyName)
	}
	if len(keywords) > 0 {
		s = s.Keywords(keywords...)
	}
	if sortField != "" {
		s = s.OrderBy(sortField, sortOrder)
	}

	ctx := context.Background()

	if countOnly {
		count, err := s.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Println(count)
		return nil
	}

	awards, err := s.Limit(awardLimit).All(ctx)
	if err != nil {
		return err
	}

	if filterExpr != "" {
		f, err := filter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		awards, err = f.Apply(awards)
		if err != nil {
			return err
		}
	}

	if len(awards) == 0 {
		fmt.Println("No awards found matching the criteria.")
		return nil
	}

	fmt.Printf("\nFound %d awards:\n", len(awards))
	fmt.Println(strings.Repeat("-", 80))

	for _, award := range awards {
		printAward(award)
	}

	return nil
}

func awardSearchByType(name string) (search.AwardsSearch, error) {
	s := search.Awards(apiClient, logger)
	switch strings.ToLower(name) {
	case "contracts":
		return s.Contracts(), nil
	case "idvs":
		return s.IDVs(), nil
	case "grants":
		return s.Grants(), nil
	case "loans":
		return s.Loans(), nil
	case "direct-payments":
		return s.DirectPayments(), nil
	case "other":
		return s.OtherAssistance(), nil
	}
	return s, fmt.Errorf("unknown award type: %s", name)
}

func printAward(award *models.Award) {
	fmt.Printf("• %s  $%.2f\n", award.AwardID, award.Amount)
	if award.RecipientName != "" {
		fmt.Printf("  Recipient: %s\n", award.RecipientName)
	}
	if showDetails {
		if award.AwardingAgency != "" {
			fmt.Printf("  Agency: %s", award.AwardingAgency)
			if award.AwardingSubAgency != "" {
				fmt.Printf(" / %s", award.AwardingSubAgency)
			}
			fmt.Println()
		}
		if !award.StartDate.IsZero() {
			fmt.Printf("  Period: %s", award.StartDate.Format("2006-01-02"))
			if !award.EndDate.IsZero() {
				fmt.Printf(" to %s", award.EndDate.Format("2006-01-02"))
			}
			fmt.Println()
		}
		if award.Description != "" {
			fmt.Printf("  %s\n", award.Description)
		}
	}
}
