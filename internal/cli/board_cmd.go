package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newBoardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
	}

	var order int
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a board",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			board, err := a.boards.CreateBoard(cmd.Context(), args[0], order)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created board %q (id %d)\n", board.Name, board.ID)
			return nil
		}),
	}
	create.Flags().IntVar(&order, "order", 0, "sort order, ascending")

	cmd.AddCommand(
		create,
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a board; its posts are kept without a board",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid board id %q", args[0])
				}
				return a.boards.DeleteBoard(cmd.Context(), id)
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List boards by sort order",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
				boards, err := a.boards.GetAllBoards(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tORDER\tNAME")
				for _, b := range boards {
					fmt.Fprintf(tw, "%d\t%d\t%s\n", b.ID, b.Order, b.Name)
				}
				return tw.Flush()
			}),
		},
	)
	return cmd
}
