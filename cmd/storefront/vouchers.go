package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Deyveson/Projeto-cit/internal/api"
	"github.com/Deyveson/Projeto-cit/internal/checkout"
)

func vouchersCmd() *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:   "vouchers",
		Short: "Lista os pacotes de horas disponíveis",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()

			var vouchers []api.Voucher
			if slug != "" {
				info, err := app.client.StoreInfo(ctx, slug)
				if err != nil {
					if errors.Is(err, api.ErrStoreNotFound) {
						return fmt.Errorf("loja %q não encontrada. O link que você acessou não é válido", slug)
					}
					return err
				}
				fmt.Printf("Loja: %s\n\n", info.Name)

				vouchers, err = app.client.StoreVouchers(ctx, slug)
				if err != nil {
					return err
				}
			} else {
				vouchers, err = app.client.Vouchers(ctx)
				if err != nil {
					return err
				}
			}

			if len(vouchers) == 0 {
				fmt.Println("Nenhum pacote disponível no momento.")
				return nil
			}
			for _, v := range vouchers {
				printVoucher(v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&slug, "store", "", "Slug da loja (catálogo por empresa)")
	return cmd
}

func printVoucher(v api.Voucher) {
	fmt.Printf("%-12s %-20s %-10s %s\n",
		v.ID, v.Name, checkout.FormatHours(v.Hours), checkout.FormatPrice(v.Price))
	if v.Description != "" {
		fmt.Printf("             %s\n", v.Description)
	}
}

func selectCmd() *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:   "select <voucher-id>",
		Short: "Adiciona um pacote ao carrinho",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()

			var vouchers []api.Voucher
			if slug != "" {
				vouchers, err = app.client.StoreVouchers(ctx, slug)
				if errors.Is(err, api.ErrStoreNotFound) {
					return fmt.Errorf("loja %q não encontrada", slug)
				}
			} else {
				vouchers, err = app.client.Vouchers(ctx)
			}
			if err != nil {
				return err
			}

			var selected *api.Voucher
			for i := range vouchers {
				if vouchers[i].ID == args[0] {
					selected = &vouchers[i]
					break
				}
			}
			if selected == nil {
				return fmt.Errorf("pacote %q não encontrado", args[0])
			}

			if err := app.session.SaveSelectedVoucher(selected); err != nil {
				return err
			}
			if slug != "" {
				if err := app.session.SaveCompanySlug(slug); err != nil {
					return err
				}
			}

			fmt.Printf("%q (%s, %s) adicionado ao carrinho.\n",
				selected.Name, checkout.FormatHours(selected.Hours), checkout.FormatPrice(selected.Price))

			// Logged-out users go through registration first, like the
			// browser flow.
			if app.session.Authenticated() {
				fmt.Println("Use 'storefront checkout' para pagar.")
			} else {
				fmt.Println("Crie uma conta com 'storefront register' (ou 'storefront login') para continuar.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&slug, "store", "", "Slug da loja")
	return cmd
}

func cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Mostra o carrinho",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			voucher, err := app.session.SelectedVoucher()
			if err != nil {
				fmt.Println("Seu carrinho está vazio. Use 'storefront vouchers' para ver os pacotes.")
				return nil
			}

			fmt.Println("Carrinho:")
			printVoucher(*voucher)
			fmt.Printf("\nTotal: %s\n", checkout.FormatPrice(voucher.Price))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Esvazia o carrinho",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.session.ClearSelectedVoucher(); err != nil {
				return err
			}
			fmt.Println("Carrinho esvaziado.")
			return nil
		},
	})

	return cmd
}
