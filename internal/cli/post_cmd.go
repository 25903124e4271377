package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPostCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Moderate posts",
	}

	var off bool
	notice := &cobra.Command{
		Use:   "notice ID",
		Short: "Pin a post as a notice (or unpin with --off)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			if err := a.posts.SetNotice(cmd.Context(), id, !off); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post %d notice: %t\n", id, !off)
			return nil
		}),
	}
	notice.Flags().BoolVar(&off, "off", false, "unpin instead of pin")

	cmd.AddCommand(notice)
	return cmd
}
