package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Deyveson/Projeto-cit/internal/api"
	"github.com/Deyveson/Projeto-cit/internal/checkout"
	"github.com/Deyveson/Projeto-cit/internal/config"
	"github.com/Deyveson/Projeto-cit/internal/mercadopago"
	"github.com/Deyveson/Projeto-cit/internal/session"
)

var (
	errNotLoggedIn = errors.New("você não está logado. Use 'storefront login'")
	errNotAdmin    = errors.New("este comando exige uma conta de administrador")
)

// app wires config, session store and API client for one command invocation.
type app struct {
	cfg     *config.Config
	session *session.Store
	client  *api.Client
}

// newApp builds the command context. Flags override file/env config.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.APIBaseURL = v
	}
	if v, _ := cmd.Flags().GetString("session-db"); v != "" {
		cfg.SessionDBPath = v
	}

	store, err := session.NewStore(cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL, store)
	client.SetTimeout(cfg.HTTPTimeout())
	client.OnUnauthorized = func() {
		// A 401 from any endpoint is fatal to the session.
		_ = store.Clear()
		fmt.Fprintln(os.Stderr, "Sessão expirada. Faça login novamente com 'storefront login'.")
	}

	return &app{cfg: cfg, session: store, client: client}, nil
}

func (a *app) Close() {
	_ = a.session.Close()
}

func (a *app) orchestrator() *checkout.Orchestrator {
	return checkout.New(checkout.Deps{
		Backend:   a.client,
		Tokenizer: mercadopago.NewTokenizer(a.cfg.MercadoPagoBaseURL),
		Session:   a.session,
	})
}

func (a *app) requireAuth() error {
	if !a.session.Authenticated() {
		return errNotLoggedIn
	}
	return nil
}

// requireAdmin gates admin commands on the cached role in addition to the
// token. The backend enforces the role again on every admin endpoint.
func (a *app) requireAdmin() error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if !a.session.IsAdmin() {
		return errNotAdmin
	}
	return nil
}
