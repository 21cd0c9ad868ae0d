// Package checkout sequences order creation and payment settlement across the
// PIX and card paths, normalizing gateway rejection codes into user-facing
// messages.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Deyveson/Projeto-cit/internal/api"
	"github.com/Deyveson/Projeto-cit/internal/mercadopago"
)

// Sentinel errors surfaced to the views.
var (
	// ErrNoVoucher means no voucher selection is cached; checkout cannot
	// start.
	ErrNoVoucher = errors.New("checkout: no voucher selected")

	// ErrIncompleteCard means a required card field is missing. Raised
	// locally, before any network call.
	ErrIncompleteCard = errors.New("Preencha todos os dados do cartão")

	// ErrNotConfirmed means a PIX payment has not settled yet; the user may
	// poll again.
	ErrNotConfirmed = errors.New("Pagamento ainda não foi confirmado. Aguarde alguns instantes e tente novamente")
)

// RejectedError is a card payment refused by the gateway, carrying both the
// normalized user message and the raw status detail.
type RejectedError struct {
	Message string
	Detail  string
}

func (e *RejectedError) Error() string { return e.Message }

// PendingError is a card payment the gateway left in review. The charge may
// still settle; it must not be presented as approved.
type PendingError struct {
	Message string
	Detail  string
}

func (e *PendingError) Error() string { return e.Message }

// Checkout step names, recorded in order of execution.
const (
	StepCreateOrder    = "create_order"
	StepFetchPublicKey = "fetch_public_key"
	StepTokenizeCard   = "tokenize_card"
	StepProcessPayment = "process_payment"
	StepAwaitSettle    = "await_confirmation"
)

// Step statuses
const (
	StepPending   = "pending"
	StepCompleted = "completed"
	StepFailed    = "failed"
)

// Step records the outcome of one stage of a checkout attempt.
type Step struct {
	Name   string
	Status string
	Err    error
}

// Result is the outcome of a checkout attempt.
type Result struct {
	Order   *api.Order
	Payment *api.Payment
	Steps   []Step
}

// Terminal reports whether the payment reached a settled state.
func (r *Result) Terminal() bool {
	if r.Payment == nil {
		return false
	}
	return r.Payment.Status == api.PaymentConfirmed || r.Payment.Status == api.PaymentPaid
}

// Backend is the slice of the API client the orchestrator needs.
type Backend interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*api.Order, error)
	ProcessPayment(ctx context.Context, req api.ProcessPaymentRequest) (*api.Payment, error)
	PaymentStatus(ctx context.Context, orderID string) (*api.Payment, error)
	ConfirmPayment(ctx context.Context, orderID string) (*api.ConfirmResult, error)
	MercadoPagoPublicKey(ctx context.Context) (string, error)
}

// Tokenizer exchanges raw card data for a gateway token.
type Tokenizer interface {
	CreateCardToken(ctx context.Context, publicKey string, card mercadopago.CardData) (*mercadopago.Token, error)
}

// SessionStore is the slice of the session store the orchestrator needs.
type SessionStore interface {
	SelectedVoucher() (*api.Voucher, error)
	ClearSelectedVoucher() error
	SaveLastPayment(p *api.Payment) error
	CompanySlug() string
	User() (*api.User, error)
}

// Deps holds the orchestrator's dependencies.
type Deps struct {
	Backend   Backend
	Tokenizer Tokenizer
	Session   SessionStore
}

// Orchestrator drives the checkout state machine.
type Orchestrator struct {
	backend   Backend
	tokenizer Tokenizer
	session   SessionStore
}

// New creates an orchestrator with explicit dependencies.
func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		backend:   deps.Backend,
		tokenizer: deps.Tokenizer,
		session:   deps.Session,
	}
}

func (o *Orchestrator) selectedVoucher() (*api.Voucher, error) {
	voucher, err := o.session.SelectedVoucher()
	if err != nil {
		return nil, ErrNoVoucher
	}
	return voucher, nil
}

func record(result *Result, name, status string, err error) {
	result.Steps = append(result.Steps, Step{Name: name, Status: status, Err: err})
}

// StartPIX creates an order and requests a PIX charge. The returned payment
// is non-terminal: it carries the QR payload and key, and settlement must be
// confirmed later via ConfirmPIX. The voucher cache is kept until then.
func (o *Orchestrator) StartPIX(ctx context.Context) (*Result, error) {
	result := &Result{}

	voucher, err := o.selectedVoucher()
	if err != nil {
		return result, err
	}

	order, err := o.backend.CreateOrder(ctx, api.CreateOrderRequest{
		VoucherID:     voucher.ID,
		PaymentMethod: api.MethodPIX,
		CompanySlug:   o.session.CompanySlug(),
	})
	if err != nil {
		record(result, StepCreateOrder, StepFailed, err)
		return result, fmt.Errorf("falha ao criar pedido: %w", err)
	}
	result.Order = order
	record(result, StepCreateOrder, StepCompleted, nil)

	payment, err := o.backend.ProcessPayment(ctx, api.ProcessPaymentRequest{
		OrderID:       order.ID,
		PaymentMethod: api.MethodPIX,
	})
	if err != nil {
		record(result, StepProcessPayment, StepFailed, err)
		return result, fmt.Errorf("falha ao gerar cobrança PIX: %w", err)
	}
	result.Payment = payment
	record(result, StepProcessPayment, StepCompleted, nil)
	record(result, StepAwaitSettle, StepPending, nil)

	return result, nil
}

// ConfirmPIX is the manual "I already paid" action. It polls the payment
// status; only a paid/confirmed status advances the flow, in which case the
// backend confirmation is requested, the payment result is cached for the
// confirmation view and the voucher selection is dropped. Any other status
// yields ErrNotConfirmed and the caller may poll again.
func (o *Orchestrator) ConfirmPIX(ctx context.Context, orderID string) (*api.Payment, error) {
	payment, err := o.backend.PaymentStatus(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar status do pagamento: %w", err)
	}

	if payment.Status != api.PaymentPaid && payment.Status != api.PaymentConfirmed {
		return nil, ErrNotConfirmed
	}

	if _, err := o.backend.ConfirmPayment(ctx, orderID); err != nil {
		// The backend refuses confirmation while the gateway still reports
		// the charge as pending.
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 400 {
			return nil, ErrNotConfirmed
		}
		return nil, fmt.Errorf("falha ao confirmar pagamento: %w", err)
	}

	if err := o.session.SaveLastPayment(payment); err != nil {
		return nil, err
	}
	if err := o.session.ClearSelectedVoucher(); err != nil {
		return nil, err
	}
	return payment, nil
}

// CardInput is the card form data collected from the user.
type CardInput struct {
	Card         mercadopago.CardData
	Installments int
	Method       string // credit or debit; defaults to credit
}

func (in *CardInput) validate() error {
	card := in.Card
	if strings.TrimSpace(card.Number) == "" ||
		strings.TrimSpace(card.HolderName) == "" ||
		strings.TrimSpace(card.Expiry) == "" ||
		strings.TrimSpace(card.CVV) == "" {
		return ErrIncompleteCard
	}
	return nil
}

// PayWithCard runs the synchronous card path: local validation, mandatory
// gateway tokenization, then payment submission with the token, detected
// brand, installments and payer identity. Tokenization failure aborts the
// checkout; raw card data is never sent to the backend. On success the
// payment result is cached and the voucher selection dropped.
func (o *Orchestrator) PayWithCard(ctx context.Context, in CardInput) (*Result, error) {
	result := &Result{}

	if err := in.validate(); err != nil {
		return result, err
	}
	method := in.Method
	if method != api.MethodDebit {
		method = api.MethodCredit
	}
	installments := in.Installments
	if installments < 1 {
		installments = 1
	}

	voucher, err := o.selectedVoucher()
	if err != nil {
		return result, err
	}

	order, err := o.backend.CreateOrder(ctx, api.CreateOrderRequest{
		VoucherID:     voucher.ID,
		PaymentMethod: method,
		CompanySlug:   o.session.CompanySlug(),
	})
	if err != nil {
		record(result, StepCreateOrder, StepFailed, err)
		return result, fmt.Errorf("falha ao criar pedido: %w", err)
	}
	result.Order = order
	record(result, StepCreateOrder, StepCompleted, nil)

	publicKey, err := o.backend.MercadoPagoPublicKey(ctx)
	if err != nil {
		record(result, StepFetchPublicKey, StepFailed, err)
		return result, fmt.Errorf("falha ao obter chave pública do gateway: %w", err)
	}
	record(result, StepFetchPublicKey, StepCompleted, nil)

	token, err := o.tokenizer.CreateCardToken(ctx, publicKey, in.Card)
	if err != nil {
		record(result, StepTokenizeCard, StepFailed, err)
		return result, fmt.Errorf("falha ao tokenizar cartão: %w", err)
	}
	record(result, StepTokenizeCard, StepCompleted, nil)

	payerEmail := ""
	if user, uerr := o.session.User(); uerr == nil {
		payerEmail = user.Email
	}

	payment, err := o.backend.ProcessPayment(ctx, api.ProcessPaymentRequest{
		OrderID:              order.ID,
		PaymentMethod:        method,
		CardToken:            token.ID,
		CardPaymentMethodID:  DetectBrand(in.Card.Number),
		CardInstallments:     installments,
		CardHolderName:       in.Card.HolderName,
		PayerEmail:           payerEmail,
		IdentificationType:   in.Card.IdentificationType,
		IdentificationNumber: in.Card.IdentificationNumber,
	})
	if err != nil {
		record(result, StepProcessPayment, StepFailed, err)
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			return result, &RejectedError{
				Message: RejectionMessage(apiErr.Detail),
				Detail:  apiErr.Detail,
			}
		}
		return result, fmt.Errorf("falha ao processar pagamento: %w", err)
	}
	result.Payment = payment
	record(result, StepProcessPayment, StepCompleted, nil)

	if payment.Status == api.PaymentFailed {
		return result, &RejectedError{
			Message: RejectionMessage(payment.StatusDetail),
			Detail:  payment.StatusDetail,
		}
	}

	// Anything short of paid/confirmed is a charge still in review: the
	// gateway reports pending without raising. The cart stays so the user
	// can retry with another method.
	if !result.Terminal() {
		return result, &PendingError{
			Message: pendingMessage(payment.StatusDetail),
			Detail:  payment.StatusDetail,
		}
	}

	if err := o.session.SaveLastPayment(payment); err != nil {
		return result, err
	}
	if err := o.session.ClearSelectedVoucher(); err != nil {
		return result, err
	}

	return result, nil
}

// SettleDelay is the cosmetic pause before moving to the confirmation view
// after a synchronous card approval.
const SettleDelay = 1 * time.Second
