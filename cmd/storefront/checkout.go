package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Deyveson/Projeto-cit/internal/checkout"
	"github.com/Deyveson/Projeto-cit/internal/mercadopago"
)

func checkoutCmd() *cobra.Command {
	var (
		method       string
		cardNumber   string
		cardHolder   string
		cardExpiry   string
		cardCVV      string
		installments int
		docType      string
		docNumber    string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Paga o pacote do carrinho via PIX ou cartão",
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
			orch := app.orchestrator()

			switch method {
			case "pix":
				return runPIXCheckout(ctx, orch)
			case "credit", "debit":
				return runCardCheckout(ctx, app, orch, checkout.CardInput{
					Card: mercadopago.CardData{
						Number:               cardNumber,
						HolderName:           cardHolder,
						Expiry:               cardExpiry,
						CVV:                  cardCVV,
						IdentificationType:   docType,
						IdentificationNumber: docNumber,
					},
					Installments: installments,
					Method:       method,
				})
			default:
				return fmt.Errorf("método %q inválido; use pix, credit ou debit", method)
			}
		},
	}

	cmd.Flags().StringVar(&method, "method", "pix", "Método de pagamento: pix, credit ou debit")
	cmd.Flags().StringVar(&cardNumber, "card-number", "", "Número do cartão")
	cmd.Flags().StringVar(&cardHolder, "card-holder", "", "Nome impresso no cartão")
	cmd.Flags().StringVar(&cardExpiry, "card-expiry", "", "Validade MM/AA")
	cmd.Flags().StringVar(&cardCVV, "card-cvv", "", "Código de segurança")
	cmd.Flags().IntVar(&installments, "installments", 1, "Número de parcelas")
	cmd.Flags().StringVar(&docType, "doc-type", "CPF", "Tipo de documento (CPF, CNPJ)")
	cmd.Flags().StringVar(&docNumber, "doc-number", "", "Número do documento")
	return cmd
}

func runPIXCheckout(ctx context.Context, orch *checkout.Orchestrator) error {
	result, err := orch.StartPIX(ctx)
	if err != nil {
		if errors.Is(err, checkout.ErrNoVoucher) {
			return fmt.Errorf("seu carrinho está vazio. Use 'storefront select' primeiro")
		}
		return err
	}

	payment := result.Payment
	fmt.Printf("Pedido %s criado. Total: %s\n\n", result.Order.ID, checkout.FormatPrice(payment.Amount))
	if payment.PixQRCode != "" {
		fmt.Println("PIX copia e cola:")
		fmt.Println(payment.PixQRCode)
		fmt.Println()
	}
	if payment.PixKey != "" {
		fmt.Printf("Chave PIX: %s\n", payment.PixKey)
	}
	fmt.Printf("\nApós pagar no app do seu banco, rode:\n  storefront confirm %s\n", result.Order.ID)
	return nil
}

func runCardCheckout(ctx context.Context, app *app, orch *checkout.Orchestrator, in checkout.CardInput) error {
	result, err := orch.PayWithCard(ctx, in)
	if err != nil {
		if errors.Is(err, checkout.ErrNoVoucher) {
			return fmt.Errorf("seu carrinho está vazio. Use 'storefront select' primeiro")
		}
		var rejected *checkout.RejectedError
		if errors.As(err, &rejected) {
			return fmt.Errorf("%s", rejected.Message)
		}
		var pending *checkout.PendingError
		if errors.As(err, &pending) {
			fmt.Println(pending.Message)
			fmt.Println("Acompanhe o pedido com 'storefront orders'.")
			return nil
		}
		return err
	}

	payment := result.Payment
	fmt.Printf("Pagamento aprovado no cartão %s.\n", checkout.MaskCard(payment.CardLastDigits))
	fmt.Printf("Pedido %s: %s", result.Order.ID, checkout.FormatPrice(payment.Amount))
	if payment.Installments > 1 {
		fmt.Printf(" em %dx", payment.Installments)
	}
	fmt.Println()

	time.Sleep(checkout.SettleDelay)
	printConfirmation(app)
	return nil
}

func confirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <order-id>",
		Short: "Confirma um pagamento PIX já realizado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.requireAuth(); err != nil {
				return err
			}

			_, err = app.orchestrator().ConfirmPIX(context.Background(), args[0])
			if err != nil {
				if errors.Is(err, checkout.ErrNotConfirmed) {
					fmt.Println("Pagamento ainda não confirmado. Aguarde alguns instantes e rode o comando novamente.")
					return nil
				}
				return err
			}

			printConfirmation(app)
			return nil
		},
	}
}

// printConfirmation renders the confirmation view, consuming the cached
// payment result exactly once and showing the refreshed hours balance.
func printConfirmation(app *app) {
	fmt.Println("\nPagamento confirmado! Suas horas de internet foram adicionadas.")
	if payment, err := app.session.TakeLastPayment(); err == nil {
		fmt.Printf("Valor pago: %s\n", checkout.FormatPrice(payment.Amount))
	}
	if user, err := app.client.Me(context.Background()); err == nil {
		_ = app.session.SaveUser(user)
		fmt.Printf("Saldo atual: %.1f horas\n", user.HoursBalance)
	}
}
