package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmynk/lifesync/internal/models"
)

// NewSetupCommand creates the setup command.
func NewSetupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup <name>",
		Short: "Create your identity",
		Long: `Create the local identity with the given display name.

Nothing else works until setup has been completed. Setup runs only once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				user, err := s.org.CompleteSetup(args[0])
				if err != nil {
					return err
				}
				return f.Result(user, func(w io.Writer) {
					fmt.Fprintf(w, "Welcome, %s! Your id is %s\n", user.Name, user.ID)
				})
			})
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show your identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				user, err := s.org.Identity()
				if err != nil {
					return err
				}
				return f.Result(user, func(w io.Writer) { printUser(w, user) })
			})
		},
	}
}

// NewRenameCommand creates the rename command.
func NewRenameCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Change your display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				user, err := s.org.RenameUser(args[0])
				if err != nil {
					return err
				}
				return f.Result(user, func(w io.Writer) { printUser(w, user) })
			})
		},
	}
}

// NewCodeCommand creates the code command.
func NewCodeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "code",
		Short: "Print the code a partner needs to link with you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				code, err := s.org.ExportCode()
				if err != nil {
					return err
				}
				return f.Result(map[string]string{"code": code}, func(w io.Writer) {
					fmt.Fprintln(w, code)
				})
			})
		},
	}
}

func printUser(w io.Writer, u models.User) {
	fmt.Fprintf(w, "%s (%s)\n", u.Name, u.ID)
}
