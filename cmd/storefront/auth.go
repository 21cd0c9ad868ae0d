package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Deyveson/Projeto-cit/internal/api"
	"github.com/Deyveson/Projeto-cit/internal/checkout"
)

func registerCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Cria uma conta e entra automaticamente",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" || password == "" {
				return fmt.Errorf("informe --name, --email e --password")
			}

			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()

			if _, err := app.client.Register(ctx, api.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
			}); err != nil {
				return fmt.Errorf("falha no cadastro: %w", err)
			}

			// The browser flow logs in right after registering; do the same.
			if err := doLogin(ctx, app, email, password); err != nil {
				return err
			}

			fmt.Printf("Conta criada. Bem-vindo, %s!\n", name)
			printNextStep(app)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Nome completo")
	cmd.Flags().StringVar(&email, "email", "", "Email")
	cmd.Flags().StringVar(&password, "password", "", "Senha")
	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Entra com email e senha",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("informe --email e --password")
			}

			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()

			if err := doLogin(ctx, app, email, password); err != nil {
				return err
			}

			user, err := app.session.User()
			if err != nil {
				return err
			}
			if user.Role == api.RoleAdmin {
				fmt.Printf("Logado como administrador (%s). Use 'storefront admin'.\n", user.Email)
			} else {
				fmt.Printf("Logado como %s.\n", user.Email)
				printNextStep(app)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email")
	cmd.Flags().StringVar(&password, "password", "", "Senha")
	return cmd
}

// doLogin exchanges credentials for a token and caches the user record.
func doLogin(ctx context.Context, app *app, email, password string) error {
	token, err := app.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("falha no login: %w", err)
	}
	if err := app.session.SaveToken(token.AccessToken); err != nil {
		return err
	}

	user, err := app.client.Me(ctx)
	if err != nil {
		return fmt.Errorf("falha ao carregar perfil: %w", err)
	}
	return app.session.SaveUser(user)
}

// printNextStep nudges the user toward checkout when a voucher is already in
// the cart.
func printNextStep(app *app) {
	if voucher, err := app.session.SelectedVoucher(); err == nil {
		fmt.Printf("Você tem %q (%s) no carrinho. Use 'storefront checkout' para pagar.\n",
			voucher.Name, checkout.FormatHours(voucher.Hours))
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sai e apaga a sessão local",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.session.Clear(); err != nil {
				return err
			}
			fmt.Println("Sessão encerrada.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostra o usuário autenticado",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.requireAuth(); err != nil {
				return err
			}

			user, err := app.client.Me(context.Background())
			if err != nil {
				return err
			}
			_ = app.session.SaveUser(user)

			fmt.Printf("%s <%s>\n", user.Name, user.Email)
			fmt.Printf("Perfil: %s\n", user.Role)
			fmt.Printf("Saldo: %.1f horas\n", user.HoursBalance)
			return nil
		},
	}
}
