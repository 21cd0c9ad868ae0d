package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Deyveson/Projeto-cit/internal/api"
	"github.com/Deyveson/Projeto-cit/internal/checkout"
)

func ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "Mostra seu histórico de compras",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAuth(); err != nil {
				return err
			}

			orders, err := app.client.MyOrders(context.Background())
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Println("Nenhuma compra realizada ainda. Use 'storefront vouchers' para ver os pacotes.")
				return nil
			}

			for _, order := range orders {
				printOrder(order)
			}
			return nil
		},
	}
}

func printOrder(order api.Order) {
	fmt.Printf("%-12s %-10s %-10s %-8s %s %s\n",
		order.ID,
		checkout.FormatHours(order.VoucherHours),
		checkout.FormatPrice(order.TotalAmount),
		methodLabel(order.PaymentMethod),
		statusLabel(order.Status),
		order.CreatedAt.Local().Format("02/01/2006 15:04"),
	)
}

func methodLabel(method string) string {
	switch method {
	case api.MethodPIX:
		return "PIX"
	case api.MethodCredit:
		return "Crédito"
	case api.MethodDebit:
		return "Débito"
	default:
		return method
	}
}

func statusLabel(status string) string {
	switch status {
	case api.OrderPaid:
		return "Pago"
	case api.OrderPending:
		return "Pendente"
	case api.OrderFailed:
		return "Falhou"
	default:
		return status
	}
}

func panelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Mostra seu painel: saldo de horas e totais",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAuth(); err != nil {
				return err
			}
			ctx := context.Background()

			user, err := app.client.Me(ctx)
			if err != nil {
				return err
			}
			_ = app.session.SaveUser(user)

			data, err := app.client.ClientDashboard(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%s <%s>\n\n", user.Name, user.Email)
			fmt.Printf("Saldo de horas:    %.1f\n", user.HoursBalance)
			fmt.Printf("Compras:           %d (%d pagas)\n", data.TotalOrders, data.PaidOrders)
			fmt.Printf("Total gasto:       %s\n", checkout.FormatPrice(data.TotalSpent))
			return nil
		},
	}
}
