package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Deyveson/Projeto-cit/internal/api"
	"github.com/Deyveson/Projeto-cit/internal/checkout"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Console administrativo (perfil da empresa, financeiro, pedidos)",
	}

	cmd.AddCommand(adminConfigCmd())
	cmd.AddCommand(adminDashboardCmd())
	cmd.AddCommand(adminOrdersCmd())
	cmd.AddCommand(adminUsersCmd())
	cmd.AddCommand(adminVouchersCmd())
	return cmd
}

func adminConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Mostra as configurações da empresa",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAdmin(); err != nil {
				return err
			}

			cfg, err := app.client.Config(context.Background())
			if err != nil {
				return err
			}

			if company := cfg.CompanyData; company != nil {
				fmt.Println("Empresa:")
				fmt.Printf("  Nome:     %s\n", company.Name)
				fmt.Printf("  CNPJ:     %s\n", company.CNPJ)
				fmt.Printf("  Email:    %s\n", company.Email)
				fmt.Printf("  Telefone: %s\n", company.Phone)
				fmt.Printf("  Endereço: %s\n", company.Address)
				if company.Slug != "" {
					fmt.Printf("  Link da loja: /loja/%s\n", company.Slug)
				}
			}
			if fin := cfg.FinancialData; fin != nil {
				fmt.Println("Financeiro:")
				fmt.Printf("  Banco:     %s\n", fin.Bank)
				fmt.Printf("  Agência:   %s\n", fin.Agency)
				fmt.Printf("  Conta:     %s (%s)\n", fin.Account, fin.AccountType)
				fmt.Printf("  Chave PIX: %s\n", fin.PixKey)
			}
			return nil
		},
	}

	cmd.AddCommand(adminCompanyCmd())
	cmd.AddCommand(adminFinancialCmd())
	return cmd
}

func adminCompanyCmd() *cobra.Command {
	var company api.CompanyData

	cmd := &cobra.Command{
		Use:   "company",
		Short: "Atualiza o perfil da empresa",
		RunE: func(cmd *cobra.Command, args []string) error {
			if company.Name == "" || company.CNPJ == "" || company.Email == "" {
				return fmt.Errorf("informe ao menos --name, --cnpj e --email")
			}

			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAdmin(); err != nil {
				return err
			}
			ctx := context.Background()

			if _, err := app.client.UpdateConfig(ctx, api.UpdateConfigRequest{
				CompanyData: &company,
			}); err != nil {
				return fmt.Errorf("falha ao salvar: %w", err)
			}

			// Re-fetch to surface the server-assigned slug.
			cfg, err := app.client.Config(ctx)
			if err == nil && cfg.CompanyData != nil && cfg.CompanyData.Slug != "" {
				fmt.Printf("Dados salvos. Link da loja: /loja/%s\n", cfg.CompanyData.Slug)
			} else {
				fmt.Println("Dados salvos.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&company.Name, "name", "", "Razão social")
	cmd.Flags().StringVar(&company.CNPJ, "cnpj", "", "CNPJ")
	cmd.Flags().StringVar(&company.Email, "email", "", "Email de contato")
	cmd.Flags().StringVar(&company.Phone, "phone", "", "Telefone")
	cmd.Flags().StringVar(&company.Address, "address", "", "Endereço")
	return cmd
}

func adminFinancialCmd() *cobra.Command {
	var financial api.FinancialData

	cmd := &cobra.Command{
		Use:   "financial",
		Short: "Atualiza os dados financeiros (banco e chave PIX)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if financial.Bank == "" || financial.Account == "" || financial.PixKey == "" {
				return fmt.Errorf("informe ao menos --bank, --account e --pix-key")
			}

			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAdmin(); err != nil {
				return err
			}

			if _, err := app.client.UpdateConfig(context.Background(), api.UpdateConfigRequest{
				FinancialData: &financial,
			}); err != nil {
				return fmt.Errorf("falha ao salvar: %w", err)
			}
			fmt.Println("Dados financeiros salvos.")
			return nil
		},
	}

	cmd.Flags().StringVar(&financial.Bank, "bank", "", "Banco")
	cmd.Flags().StringVar(&financial.Agency, "agency", "", "Agência")
	cmd.Flags().StringVar(&financial.Account, "account", "", "Conta")
	cmd.Flags().StringVar(&financial.AccountType, "account-type", "Conta Corrente", "Tipo de conta")
	cmd.Flags().StringVar(&financial.PixKey, "pix-key", "", "Chave PIX de recebimento")
	return cmd
}

func adminDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Mostra os indicadores agregados",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAdmin(); err != nil {
				return err
			}

			data, err := app.client.AdminDashboard(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("Pedidos:          %d (%d pagos, %d pendentes)\n",
				data.TotalOrders, data.PaidOrders, data.PendingOrders)
			fmt.Printf("Receita total:    %s\n", checkout.FormatPrice(data.TotalRevenue))
			if data.PaidOrders > 0 {
				fmt.Printf("Ticket médio:     %s\n",
					checkout.FormatPrice(data.TotalRevenue/float64(data.PaidOrders)))
			}
			fmt.Printf("Usuários:         %d\n", data.TotalUsers)
			return nil
		},
	}
}

func adminOrdersCmd() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Lista todos os pedidos",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAdmin(); err != nil {
				return err
			}

			orders, err := app.client.AdminOrders(context.Background(), skip, limit)
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Println("Nenhum pedido.")
				return nil
			}
			for _, order := range orders {
				printOrder(order)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Pular N pedidos")
	cmd.Flags().IntVar(&limit, "limit", 50, "Máximo de pedidos")
	return cmd
}

func adminUsersCmd() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Lista os usuários cadastrados",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAdmin(); err != nil {
				return err
			}

			users, err := app.client.Users(context.Background(), skip, limit)
			if err != nil {
				return err
			}
			for _, user := range users {
				fmt.Printf("%-12s %-25s %-30s %-8s %.1fh\n",
					user.ID, user.Name, user.Email, user.Role, user.HoursBalance)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Pular N usuários")
	cmd.Flags().IntVar(&limit, "limit", 50, "Máximo de usuários")
	return cmd
}

func adminVouchersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vouchers",
		Short: "Gerencia os pacotes à venda",
	}

	var req api.VoucherRequest

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Cria um pacote",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Name == "" || req.Hours <= 0 || req.Price <= 0 {
				return fmt.Errorf("informe --name, --hours e --price")
			}

			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAdmin(); err != nil {
				return err
			}

			req.Active = true
			voucher, err := app.client.CreateVoucher(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Pacote criado: %s\n", voucher.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&req.Name, "name", "", "Nome do pacote")
	addCmd.Flags().IntVar(&req.Hours, "hours", 0, "Horas concedidas")
	addCmd.Flags().Float64Var(&req.Price, "price", 0, "Preço em reais")
	addCmd.Flags().StringVar(&req.Description, "description", "", "Descrição")
	cmd.AddCommand(addCmd)

	var upd api.VoucherRequest
	var active bool
	updateCmd := &cobra.Command{
		Use:   "update <voucher-id>",
		Short: "Atualiza um pacote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAdmin(); err != nil {
				return err
			}

			upd.Active = active
			if _, err := app.client.UpdateVoucher(context.Background(), args[0], upd); err != nil {
				return err
			}
			fmt.Println("Pacote atualizado.")
			return nil
		},
	}
	updateCmd.Flags().StringVar(&upd.Name, "name", "", "Nome do pacote")
	updateCmd.Flags().IntVar(&upd.Hours, "hours", 0, "Horas concedidas")
	updateCmd.Flags().Float64Var(&upd.Price, "price", 0, "Preço em reais")
	updateCmd.Flags().StringVar(&upd.Description, "description", "", "Descrição")
	updateCmd.Flags().BoolVar(&active, "active", true, "Pacote ativo")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "disable <voucher-id>",
		Short: "Desativa um pacote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAdmin(); err != nil {
				return err
			}

			if err := app.client.DeleteVoucher(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Pacote desativado.")
			return nil
		},
	})

	return cmd
}
