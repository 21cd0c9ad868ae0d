package api

import "time"

// Payment method identifiers accepted by the backend.
const (
	MethodPIX    = "pix"
	MethodCredit = "credit"
	MethodDebit  = "debit"
)

// Order status constants
const (
	OrderPending = "pending"
	OrderPaid    = "paid"
	OrderFailed  = "failed"
)

// Payment status constants
const (
	PaymentPending   = "pending"
	PaymentConfirmed = "confirmed"
	PaymentPaid      = "paid"
	PaymentFailed    = "failed"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Voucher is a purchasable bundle of internet-access hours.
type Voucher struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Hours       int       `json:"hours"`
	Price       float64   `json:"price"`
	Active      bool      `json:"active"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// User is the authenticated identity as returned by /auth/me.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	HoursBalance float64   `json:"hours_balance"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest exchanges credentials for a bearer token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the login result.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Order is a single checkout attempt. Status transitions are driven by the
// backend and observed by the client.
type Order struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	VoucherID     string     `json:"voucher_id"`
	PaymentMethod string     `json:"payment_method"`
	Status        string     `json:"status"`
	TotalAmount   float64    `json:"total_amount"`
	VoucherHours  int        `json:"voucher_hours"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// CreateOrderRequest starts a checkout for a voucher.
type CreateOrderRequest struct {
	VoucherID     string `json:"voucher_id"`
	PaymentMethod string `json:"payment_method"`
	CompanySlug   string `json:"company_slug,omitempty"`
}

// Payment is the settlement record for an order. PIX payments stay pending
// until confirmed out-of-band; card payments resolve synchronously.
type Payment struct {
	ID                  string    `json:"id"`
	OrderID             string    `json:"order_id"`
	PaymentMethod       string    `json:"payment_method"`
	Status              string    `json:"status"`
	Amount              float64   `json:"amount"`
	PixQRCode           string    `json:"pix_qrcode,omitempty"`
	PixKey              string    `json:"pix_key,omitempty"`
	CardLastDigits      string    `json:"card_last_digits,omitempty"`
	MercadoPagoPayment  string    `json:"mercadopago_payment_id,omitempty"`
	StatusDetail        string    `json:"status_detail,omitempty"`
	Installments        int       `json:"installments,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// ProcessPaymentRequest settles an order. Card payments carry a gateway token
// plus payer identity; raw card data is never sent to the backend.
type ProcessPaymentRequest struct {
	OrderID              string `json:"order_id"`
	PaymentMethod        string `json:"payment_method"`
	CardToken            string `json:"card_token,omitempty"`
	CardPaymentMethodID  string `json:"card_payment_method_id,omitempty"`
	CardInstallments     int    `json:"card_installments,omitempty"`
	CardHolderName       string `json:"card_holder_name,omitempty"`
	PayerEmail           string `json:"payer_email,omitempty"`
	IdentificationType   string `json:"identification_type,omitempty"`
	IdentificationNumber string `json:"identification_number,omitempty"`
}

// ConfirmResult is the response of POST /payment/confirm/{orderId}.
type ConfirmResult struct {
	Message    string  `json:"message"`
	HoursAdded float64 `json:"hours_added"`
}

// PublicKeyResponse carries the payment gateway public key.
type PublicKeyResponse struct {
	PublicKey string `json:"public_key"`
}

// DashboardData aggregates order/revenue numbers. Client and admin dashboards
// populate different subsets of the same shape.
type DashboardData struct {
	HoursBalance  float64 `json:"hours_balance,omitempty"`
	TotalOrders   int     `json:"total_orders,omitempty"`
	PaidOrders    int     `json:"paid_orders,omitempty"`
	PendingOrders int     `json:"pending_orders,omitempty"`
	TotalSpent    float64 `json:"total_spent,omitempty"`
	TotalUsers    int     `json:"total_users,omitempty"`
	TotalRevenue  float64 `json:"total_revenue,omitempty"`
}

// StoreInfo describes a merchant storefront resolved by slug.
type StoreInfo struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Logo    string `json:"logo,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	CNPJ    string `json:"cnpj,omitempty"`
}

// CompanyData is the admin-edited company profile. The slug is assigned by
// the backend from the company name and surfaced back read-only.
type CompanyData struct {
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Slug    string `json:"slug,omitempty"`
}

// FinancialData is the admin-edited payout profile.
type FinancialData struct {
	Bank        string `json:"bank"`
	Agency      string `json:"agency"`
	Account     string `json:"account"`
	AccountType string `json:"accountType"`
	PixKey      string `json:"pixKey"`
}

// AdminConfig bundles both admin profiles as served by GET /admin/config.
type AdminConfig struct {
	CompanyData   *CompanyData   `json:"company_data,omitempty"`
	FinancialData *FinancialData `json:"financial_data,omitempty"`
}

// UpdateConfigRequest updates either or both admin profiles.
type UpdateConfigRequest struct {
	CompanyData   *CompanyData   `json:"company_data,omitempty"`
	FinancialData *FinancialData `json:"financial_data,omitempty"`
}

// MessageResponse is the generic mutation acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// VoucherRequest creates or updates a voucher (admin).
type VoucherRequest struct {
	Name        string  `json:"name"`
	Hours       int     `json:"hours"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
	Description string  `json:"description,omitempty"`
}
