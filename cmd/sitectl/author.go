package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DjordjeVuckovic/meson-site/internal/auth"
	"github.com/DjordjeVuckovic/meson-site/internal/domain"
	"github.com/DjordjeVuckovic/meson-site/internal/storage"
	"github.com/DjordjeVuckovic/meson-site/internal/validation"
)

const passwordEnv = "SITECTL_PASSWORD"

type authorInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin author"`
}

func newAuthorCmd(app *AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "author",
		Short: "Manage admin authors",
	}

	var email, role string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an author, the password is read from " + passwordEnv,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stores, err := app.openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer stores.Close()

			in := authorInput{Email: email, Password: os.Getenv(passwordEnv), Role: role}
			return createAuthor(cmd.Context(), stores.Authors, in, cmd.OutOrStdout())
		},
	}
	create.Flags().StringVar(&email, "email", "", "author email")
	create.Flags().StringVar(&role, "role", string(domain.RoleAuthor), "author role: admin or author")
	_ = create.MarkFlagRequired("email")

	hash := &cobra.Command{
		Use:   "hash",
		Short: "Print the bcrypt hash of " + passwordEnv + ", for ADMIN_PASSWORD_HASH",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printHash(os.Getenv(passwordEnv), cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(create, hash)
	return cmd
}

func createAuthor(ctx context.Context, authors storage.AuthorWriter, in authorInput, out io.Writer) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.New().Validate(in); err != nil {
		return err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}

	created, err := authors.CreateAuthor(ctx, domain.Author{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.Role(in.Role),
	})
	if errors.Is(err, storage.ErrEmailTaken) {
		return fmt.Errorf("author %s already exists", in.Email)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "created %s author %s (%s)\n", created.Role, created.Email, created.ID)
	return nil
}

func printHash(password string, out io.Writer) error {
	if password == "" {
		return fmt.Errorf("%s is not set", passwordEnv)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hash)
	return nil
}
