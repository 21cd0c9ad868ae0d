// Package web serves a local console mirroring the storefront views: a
// rendered home page plus JSON endpoints for catalog, cart, checkout,
// confirmation and the admin forms. It drives the same client SDK the CLI
// uses.
package web

import (
	"github.com/gin-gonic/gin"

	"github.com/Deyveson/Projeto-cit/internal/api"
	"github.com/Deyveson/Projeto-cit/internal/checkout"
	"github.com/Deyveson/Projeto-cit/internal/session"
)

// Server is the local storefront console.
type Server struct {
	client  *api.Client
	session *session.Store
	orch    *checkout.Orchestrator
	router  *gin.Engine
}

// Deps holds the server dependencies.
type Deps struct {
	Client       *api.Client
	Session      *session.Store
	Orchestrator *checkout.Orchestrator
}

// NewServer creates the console server and registers its routes.
func NewServer(deps Deps) *Server {
	router := gin.Default()

	s := &Server{
		client:  deps.Client,
		session: deps.Session,
		orch:    deps.Orchestrator,
		router:  router,
	}

	router.SetHTMLTemplate(newHomeTemplate())
	router.GET("/", s.handleHome)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/vouchers", s.handleVouchers)
		apiGroup.GET("/store/:slug", s.handleStore)

		apiGroup.POST("/session/register", s.handleRegister)
		apiGroup.POST("/session/login", s.handleLogin)
		apiGroup.POST("/session/logout", s.handleLogout)
		apiGroup.GET("/session", s.handleSession)

		apiGroup.GET("/cart", s.handleCartShow)
		apiGroup.POST("/cart", s.handleCartAdd)
		apiGroup.DELETE("/cart", s.handleCartClear)

		apiGroup.POST("/checkout/pix", s.handleCheckoutPIX)
		apiGroup.POST("/checkout/card", s.handleCheckoutCard)
		apiGroup.POST("/checkout/confirm/:orderID", s.handleConfirm)
		apiGroup.GET("/confirmation", s.handleConfirmation)

		apiGroup.GET("/orders", s.handleOrders)
		apiGroup.GET("/dashboard", s.handleDashboard)

		admin := apiGroup.Group("/admin", s.requireAdmin)
		{
			admin.GET("/config", s.handleAdminConfig)
			admin.PUT("/config", s.handleAdminUpdateConfig)
			admin.GET("/dashboard", s.handleAdminDashboard)
			admin.GET("/orders", s.handleAdminOrders)
			admin.GET("/users", s.handleAdminUsers)
		}
	}

	return s
}

// Run starts the console server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
