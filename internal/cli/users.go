package cli

import (
	"inventory-api/internal/client"
	"inventory-api/internal/domain"

	"github.com/spf13/cobra"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and create users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			users, err := rootOpts.store().Users(cmd.Context())
			if err != nil {
				return out.Fail(err)
			}
			return out.Table(users, []string{"ID", "NAME", "EMAIL"}, userRows(users))
		},
	})

	var input client.NewUser
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user; the id is assigned by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			user, err := rootOpts.store().CreateUser(cmd.Context(), input)
			if err != nil {
				return out.Fail(err)
			}
			return out.Table(user, []string{"ID", "NAME", "EMAIL"}, userRows([]domain.User{*user}))
		},
	}
	create.Flags().StringVar(&input.Name, "name", "", "display name")
	create.Flags().StringVar(&input.Email, "email", "", "email address")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")
	cmd.AddCommand(create)

	return cmd
}

func userRows(users []domain.User) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.UserID, u.Name, u.Email})
	}
	return rows
}
