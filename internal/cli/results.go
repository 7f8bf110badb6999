package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/tycho-bear/tic-tac-toe/internal/model"
)

func newResultsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List recorded match results",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ResultList

			path := "/api/v1/results"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (default: server default)")

	return cmd
}

func newTallyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tally <player>",
		Short: "Show a player's win/loss/draw record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tally model.PlayerTally

			path := "/api/v1/results/" + url.PathEscape(args[0])
			if err := client.Get(path, &tally); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(tally)
			return nil
		},
	}
}
