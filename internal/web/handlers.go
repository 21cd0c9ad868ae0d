package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Deyveson/Projeto-cit/internal/api"
	"github.com/Deyveson/Projeto-cit/internal/checkout"
	"github.com/Deyveson/Projeto-cit/internal/mercadopago"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// failErr maps an error to a response, preserving backend status codes.
func failErr(c *gin.Context, err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		fail(c, apiErr.StatusCode, apiErr.Error())
		return
	}
	fail(c, http.StatusInternalServerError, err.Error())
}

// requireAdmin gates the admin group on the cached session role.
func (s *Server) requireAdmin(c *gin.Context) {
	if !s.session.Authenticated() {
		fail(c, http.StatusUnauthorized, "faça login para continuar")
		c.Abort()
		return
	}
	if !s.session.IsAdmin() {
		fail(c, http.StatusForbidden, "acesso restrito a administradores")
		c.Abort()
		return
	}
	c.Next()
}

// ==================== Catalog ====================

func (s *Server) handleVouchers(c *gin.Context) {
	slug := c.Query("store")

	var (
		vouchers []api.Voucher
		err      error
	)
	if slug != "" {
		vouchers, err = s.client.StoreVouchers(c.Request.Context(), slug)
	} else {
		vouchers, err = s.client.Vouchers(c.Request.Context())
	}
	if err != nil {
		if errors.Is(err, api.ErrStoreNotFound) {
			fail(c, http.StatusNotFound, "loja não encontrada")
			return
		}
		failErr(c, err)
		return
	}
	ok(c, vouchers)
}

func (s *Server) handleStore(c *gin.Context) {
	info, err := s.client.StoreInfo(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, api.ErrStoreNotFound) {
			fail(c, http.StatusNotFound, "loja não encontrada")
			return
		}
		failErr(c, err)
		return
	}
	ok(c, info)
}

// ==================== Session ====================

func (s *Server) handleRegister(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.client.Register(c.Request.Context(), req); err != nil {
		failErr(c, err)
		return
	}
	s.login(c, req.Email, req.Password)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req api.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.login(c, req.Email, req.Password)
}

func (s *Server) login(c *gin.Context, email, password string) {
	token, err := s.client.Login(c.Request.Context(), api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	if err := s.session.SaveToken(token.AccessToken); err != nil {
		failErr(c, err)
		return
	}
	user, err := s.client.Me(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	if err := s.session.SaveUser(user); err != nil {
		failErr(c, err)
		return
	}
	ok(c, user)
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.session.Clear(); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "sessão encerrada"})
}

func (s *Server) handleSession(c *gin.Context) {
	if !s.session.Authenticated() {
		ok(c, gin.H{"authenticated": false})
		return
	}
	user, err := s.session.User()
	if err != nil {
		ok(c, gin.H{"authenticated": true})
		return
	}
	ok(c, gin.H{"authenticated": true, "user": user})
}

// ==================== Cart ====================

type cartAddRequest struct {
	VoucherID string `json:"voucher_id"`
	Store     string `json:"store,omitempty"`
}

func (s *Server) handleCartAdd(c *gin.Context) {
	var req cartAddRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var (
		vouchers []api.Voucher
		err      error
	)
	if req.Store != "" {
		vouchers, err = s.client.StoreVouchers(c.Request.Context(), req.Store)
	} else {
		vouchers, err = s.client.Vouchers(c.Request.Context())
	}
	if err != nil {
		if errors.Is(err, api.ErrStoreNotFound) {
			fail(c, http.StatusNotFound, "loja não encontrada")
			return
		}
		failErr(c, err)
		return
	}

	for i := range vouchers {
		if vouchers[i].ID == req.VoucherID {
			if err := s.session.SaveSelectedVoucher(&vouchers[i]); err != nil {
				failErr(c, err)
				return
			}
			if req.Store != "" {
				if err := s.session.SaveCompanySlug(req.Store); err != nil {
					failErr(c, err)
					return
				}
			}
			// The browser flow branches on session presence here:
			// checkout when logged in, registration otherwise.
			next := "register"
			if s.session.Authenticated() {
				next = "checkout"
			}
			ok(c, gin.H{"selected": vouchers[i], "next": next})
			return
		}
	}
	fail(c, http.StatusNotFound, "pacote não encontrado")
}

func (s *Server) handleCartShow(c *gin.Context) {
	voucher, err := s.session.SelectedVoucher()
	if err != nil {
		ok(c, gin.H{"empty": true})
		return
	}
	ok(c, gin.H{
		"empty":   false,
		"voucher": voucher,
		"total":   checkout.FormatPrice(voucher.Price),
		"hours":   checkout.FormatHours(voucher.Hours),
	})
}

func (s *Server) handleCartClear(c *gin.Context) {
	if err := s.session.ClearSelectedVoucher(); err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"message": "carrinho esvaziado"})
}

// ==================== Checkout ====================

func (s *Server) handleCheckoutPIX(c *gin.Context) {
	result, err := s.orch.StartPIX(c.Request.Context())
	if err != nil {
		if errors.Is(err, checkout.ErrNoVoucher) {
			fail(c, http.StatusBadRequest, "seu carrinho está vazio")
			return
		}
		failErr(c, err)
		return
	}
	ok(c, gin.H{
		"order":      result.Order,
		"pix_qrcode": result.Payment.PixQRCode,
		"pix_key":    result.Payment.PixKey,
		"amount":     checkout.FormatPrice(result.Payment.Amount),
	})
}

type cardCheckoutRequest struct {
	Method               string `json:"method"`
	CardNumber           string `json:"card_number"`
	CardHolder           string `json:"card_holder"`
	CardExpiry           string `json:"card_expiry"`
	CardCVV              string `json:"card_cvv"`
	Installments         int    `json:"installments"`
	IdentificationType   string `json:"identification_type"`
	IdentificationNumber string `json:"identification_number"`
}

func (s *Server) handleCheckoutCard(c *gin.Context) {
	var req cardCheckoutRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.orch.PayWithCard(c.Request.Context(), checkout.CardInput{
		Card: mercadopago.CardData{
			Number:               req.CardNumber,
			HolderName:           req.CardHolder,
			Expiry:               req.CardExpiry,
			CVV:                  req.CardCVV,
			IdentificationType:   req.IdentificationType,
			IdentificationNumber: req.IdentificationNumber,
		},
		Installments: req.Installments,
		Method:       req.Method,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNoVoucher):
			fail(c, http.StatusBadRequest, "seu carrinho está vazio")
		case errors.Is(err, checkout.ErrIncompleteCard):
			fail(c, http.StatusBadRequest, checkout.ErrIncompleteCard.Error())
		default:
			var rejected *checkout.RejectedError
			if errors.As(err, &rejected) {
				fail(c, http.StatusPaymentRequired, rejected.Message)
				return
			}
			var pending *checkout.PendingError
			if errors.As(err, &pending) {
				c.JSON(http.StatusAccepted, gin.H{"success": false, "pending": true, "error": pending.Message})
				return
			}
			failErr(c, err)
		}
		return
	}
	ok(c, gin.H{
		"order":   result.Order,
		"payment": result.Payment,
		"card":    checkout.MaskCard(result.Payment.CardLastDigits),
	})
}

func (s *Server) handleConfirm(c *gin.Context) {
	payment, err := s.orch.ConfirmPIX(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		if errors.Is(err, checkout.ErrNotConfirmed) {
			fail(c, http.StatusConflict, checkout.ErrNotConfirmed.Error())
			return
		}
		failErr(c, err)
		return
	}
	ok(c, payment)
}

// handleConfirmation consumes the cached payment result exactly once.
func (s *Server) handleConfirmation(c *gin.Context) {
	payment, err := s.session.TakeLastPayment()
	if err != nil {
		fail(c, http.StatusNotFound, "nenhum pagamento recente")
		return
	}
	ok(c, payment)
}

// ==================== Orders / dashboards ====================

func (s *Server) handleOrders(c *gin.Context) {
	orders, err := s.client.MyOrders(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, orders)
}

func (s *Server) handleDashboard(c *gin.Context) {
	data, err := s.client.ClientDashboard(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, data)
}

// ==================== Admin ====================

func (s *Server) handleAdminConfig(c *gin.Context) {
	cfg, err := s.client.Config(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, cfg)
}

func (s *Server) handleAdminUpdateConfig(c *gin.Context) {
	var req api.UpdateConfigRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := s.client.UpdateConfig(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, resp)
}

func (s *Server) handleAdminDashboard(c *gin.Context) {
	data, err := s.client.AdminDashboard(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, data)
}

func (s *Server) handleAdminOrders(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	orders, err := s.client.AdminOrders(c.Request.Context(), skip, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, orders)
}

func (s *Server) handleAdminUsers(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	users, err := s.client.Users(c.Request.Context(), skip, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, users)
}
