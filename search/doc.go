// Package search provides fluent, immutable query builders for the
// USAspending search endpoints, built on the generic engine in the
// query package.
//
//	c, _ := client.New(client.DefaultBaseURL)
//	contracts := search.Awards(c, logger).
//		Contracts().
//		FiscalYear(2024).
//		Agency("National Aeronautics and Space Administration").
//		Limit(50)
//
//	for award, err := range contracts.Iterate(ctx) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(award.AwardID, award.Amount)
//	}
//
// Every filter method returns a new builder value; chains can be forked
// at any point without affecting earlier stages.
package search
