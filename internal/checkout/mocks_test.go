package checkout

import (
	"context"
	"errors"

	"github.com/Deyveson/Projeto-cit/internal/api"
	"github.com/Deyveson/Projeto-cit/internal/mercadopago"
)

// ==================== Backend mock ====================

type mockBackend struct {
	createOrderFunc    func(ctx context.Context, req api.CreateOrderRequest) (*api.Order, error)
	processPaymentFunc func(ctx context.Context, req api.ProcessPaymentRequest) (*api.Payment, error)
	paymentStatusFunc  func(ctx context.Context, orderID string) (*api.Payment, error)
	confirmPaymentFunc func(ctx context.Context, orderID string) (*api.ConfirmResult, error)
	publicKeyFunc      func(ctx context.Context) (string, error)

	createOrderCalls    int
	processPaymentCalls int
	confirmCalls        int

	lastOrderReq   api.CreateOrderRequest
	lastPaymentReq api.ProcessPaymentRequest
}

func (m *mockBackend) CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*api.Order, error) {
	m.createOrderCalls++
	m.lastOrderReq = req
	if m.createOrderFunc != nil {
		return m.createOrderFunc(ctx, req)
	}
	return &api.Order{ID: "order-1", VoucherID: req.VoucherID, PaymentMethod: req.PaymentMethod, Status: api.OrderPending}, nil
}

func (m *mockBackend) ProcessPayment(ctx context.Context, req api.ProcessPaymentRequest) (*api.Payment, error) {
	m.processPaymentCalls++
	m.lastPaymentReq = req
	if m.processPaymentFunc != nil {
		return m.processPaymentFunc(ctx, req)
	}
	return &api.Payment{ID: "pay-1", OrderID: req.OrderID, Status: api.PaymentConfirmed}, nil
}

func (m *mockBackend) PaymentStatus(ctx context.Context, orderID string) (*api.Payment, error) {
	if m.paymentStatusFunc != nil {
		return m.paymentStatusFunc(ctx, orderID)
	}
	return &api.Payment{ID: "pay-1", OrderID: orderID, Status: api.PaymentPending}, nil
}

func (m *mockBackend) ConfirmPayment(ctx context.Context, orderID string) (*api.ConfirmResult, error) {
	m.confirmCalls++
	if m.confirmPaymentFunc != nil {
		return m.confirmPaymentFunc(ctx, orderID)
	}
	return &api.ConfirmResult{Message: "ok", HoursAdded: 2}, nil
}

func (m *mockBackend) MercadoPagoPublicKey(ctx context.Context) (string, error) {
	if m.publicKeyFunc != nil {
		return m.publicKeyFunc(ctx)
	}
	return "TEST-public-key", nil
}

// ==================== Tokenizer mock ====================

type mockTokenizer struct {
	tokenizeFunc func(ctx context.Context, publicKey string, card mercadopago.CardData) (*mercadopago.Token, error)

	calls         int
	lastPublicKey string
	lastCard      mercadopago.CardData
}

func (m *mockTokenizer) CreateCardToken(ctx context.Context, publicKey string, card mercadopago.CardData) (*mercadopago.Token, error) {
	m.calls++
	m.lastPublicKey = publicKey
	m.lastCard = card
	if m.tokenizeFunc != nil {
		return m.tokenizeFunc(ctx, publicKey, card)
	}
	return &mercadopago.Token{ID: "tok-1", LastFourDigits: "4242"}, nil
}

// ==================== Session mock ====================

type mockSession struct {
	voucher     *api.Voucher
	user        *api.User
	companySlug string

	lastPayment  *api.Payment
	clearedCart  bool
	savedPayment bool
}

func (m *mockSession) SelectedVoucher() (*api.Voucher, error) {
	if m.voucher == nil {
		return nil, errors.New("not found")
	}
	return m.voucher, nil
}

func (m *mockSession) ClearSelectedVoucher() error {
	m.clearedCart = true
	m.voucher = nil
	return nil
}

func (m *mockSession) SaveLastPayment(p *api.Payment) error {
	m.savedPayment = true
	m.lastPayment = p
	return nil
}

func (m *mockSession) CompanySlug() string { return m.companySlug }

func (m *mockSession) User() (*api.User, error) {
	if m.user == nil {
		return nil, errors.New("not found")
	}
	return m.user, nil
}
