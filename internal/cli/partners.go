package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewLinkCommand creates the link command.
func NewLinkCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "link <code>",
		Short: "Link with a partner using the code they shared",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				partner, err := s.org.LinkPartner(args[0])
				if err != nil {
					return err
				}
				return f.Result(partner, func(w io.Writer) {
					fmt.Fprintf(w, "Successfully linked with %s!\n", partner.Name)
				})
			})
		},
	}
}

// NewUnlinkCommand creates the unlink command.
func NewUnlinkCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <partner-id>",
		Short: "Forget a linked partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				if err := s.org.UnlinkPartner(args[0]); err != nil {
					return err
				}
				return f.Result(map[string]string{"unlinked": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "Unlinked %s\n", args[0])
				})
			})
		},
	}
}

// NewPartnersCommand creates the partners command.
func NewPartnersCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "partners",
		Short: "List linked partners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				partners, err := s.org.Partners()
				if err != nil {
					return err
				}
				return f.Result(partners, func(w io.Writer) {
					if len(partners) == 0 {
						fmt.Fprintln(w, "No partners linked yet.")
						return
					}
					for _, p := range partners {
						printUser(w, p)
					}
				})
			})
		},
	}
}
