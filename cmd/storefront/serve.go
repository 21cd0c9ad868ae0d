package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Deyveson/Projeto-cit/internal/web"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sobe o console web local",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if addr == "" {
				addr = app.cfg.WebAddr
			}

			server := web.NewServer(web.Deps{
				Client:       app.client,
				Session:      app.session,
				Orchestrator: app.orchestrator(),
			})

			fmt.Printf("Console web em http://localhost%s\n", addr)
			return server.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Endereço de escuta (padrão: config web_addr)")
	return cmd
}
