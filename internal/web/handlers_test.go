package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deyveson/Projeto-cit/internal/api"
	"github.com/Deyveson/Projeto-cit/internal/checkout"
	"github.com/Deyveson/Projeto-cit/internal/mercadopago"
	"github.com/Deyveson/Projeto-cit/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestConsole wires a console server against a fake backend handler and a
// fresh session database.
func newTestConsole(t *testing.T, backend http.Handler) (*Server, *session.Store) {
	t.Helper()

	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	store, err := session.NewStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := api.NewClient(backendSrv.URL, store)
	orch := checkout.New(checkout.Deps{
		Backend:   client,
		Tokenizer: mercadopago.NewTokenizer(backendSrv.URL),
		Session:   store,
	})

	srv := NewServer(Deps{Client: client, Session: store, Orchestrator: orch})
	return srv, store
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func catalogBackend(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/client/vouchers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Voucher{
			{ID: "v-1", Name: "Pacote 1h", Hours: 1, Price: 3.0, Active: true},
			{ID: "v-2", Name: "Pacote 5h", Hours: 5, Price: 12.5, Active: true},
		})
	})
	return mux
}

func TestHomePage(t *testing.T) {
	srv, store := newTestConsole(t, catalogBackend(t))
	require.NoError(t, store.SaveSelectedVoucher(&api.Voucher{ID: "v-2", Name: "Pacote 5h", Hours: 5, Price: 12.5}))

	rec := doJSON(t, srv, http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Pacote 1h")
	assert.Contains(t, body, "R$ 12,50")
	assert.Contains(t, body, "Carrinho")
}

func TestVouchersEndpoint(t *testing.T) {
	srv, _ := newTestConsole(t, catalogBackend(t))

	rec := doJSON(t, srv, http.MethodGet, "/api/vouchers", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])
	data, ok := envelope["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)
}

func TestCartAddBranchesOnSession(t *testing.T) {
	t.Run("anonymous user is sent to registration", func(t *testing.T) {
		srv, _ := newTestConsole(t, catalogBackend(t))

		rec := doJSON(t, srv, http.MethodPost, "/api/cart", `{"voucher_id":"v-2"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		envelope := decodeEnvelope(t, rec)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "register", data["next"])
	})

	t.Run("logged-in user is sent to checkout", func(t *testing.T) {
		srv, store := newTestConsole(t, catalogBackend(t))
		require.NoError(t, store.SaveToken("opaque-token"))

		rec := doJSON(t, srv, http.MethodPost, "/api/cart", `{"voucher_id":"v-2"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		envelope := decodeEnvelope(t, rec)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "checkout", data["next"])

		// Selection must be persisted for the checkout step.
		voucher, err := store.SelectedVoucher()
		require.NoError(t, err)
		assert.Equal(t, "v-2", voucher.ID)
	})

	t.Run("unknown voucher yields 404", func(t *testing.T) {
		srv, _ := newTestConsole(t, catalogBackend(t))

		rec := doJSON(t, srv, http.MethodPost, "/api/cart", `{"voucher_id":"nope"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCartShow(t *testing.T) {
	srv, store := newTestConsole(t, catalogBackend(t))

	rec := doJSON(t, srv, http.MethodGet, "/api/cart", "")
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["data"].(map[string]any)["empty"])

	require.NoError(t, store.SaveSelectedVoucher(&api.Voucher{ID: "v-2", Name: "Pacote 5h", Hours: 5, Price: 12.5}))

	rec = doJSON(t, srv, http.MethodGet, "/api/cart", "")
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, false, data["empty"])
	assert.Equal(t, "R$ 12,50", data["total"])
	assert.Equal(t, "5 horas", data["hours"])
}

func TestCheckoutCardValidation(t *testing.T) {
	srv, store := newTestConsole(t, catalogBackend(t))
	require.NoError(t, store.SaveSelectedVoucher(&api.Voucher{ID: "v-1", Hours: 1, Price: 3.0}))

	rec := doJSON(t, srv, http.MethodPost, "/api/checkout/card",
		`{"card_number":"4111111111111111","card_holder":"MARIA","card_expiry":"12/30"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Preencha todos os dados do cartão", envelope["error"])
}

func TestCheckoutCardInReview(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/client/orders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Order{ID: "order-1", Status: api.OrderPending})
	})
	mux.HandleFunc("/payment/mercadopago/public-key", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.PublicKeyResponse{PublicKey: "TEST-key"})
	})
	mux.HandleFunc("/v1/card_tokens", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "tok-1", "last_four_digits": "1111"})
	})
	mux.HandleFunc("/payment/process", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Payment{
			ID:           "pay-1",
			OrderID:      "order-1",
			Status:       api.PaymentPending,
			StatusDetail: "pending_review_manual",
		})
	})

	srv, store := newTestConsole(t, mux)
	require.NoError(t, store.SaveSelectedVoucher(&api.Voucher{ID: "v-1", Hours: 1, Price: 3.0}))

	rec := doJSON(t, srv, http.MethodPost, "/api/checkout/card",
		`{"card_number":"4111111111111111","card_holder":"MARIA","card_expiry":"12/30","card_cvv":"123"}`)

	// An in-review charge is not a success; the user is told it is pending.
	assert.Equal(t, http.StatusAccepted, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, true, envelope["pending"])
	assert.Equal(t, "Pagamento em análise manual. Você será avisado quando for aprovado.", envelope["error"])

	// The cart survives for a retry with another method.
	_, err := store.SelectedVoucher()
	assert.NoError(t, err)
}

func TestCartAddUnknownStore(t *testing.T) {
	srv, _ := newTestConsole(t, catalogBackend(t))

	rec := doJSON(t, srv, http.MethodPost, "/api/cart", `{"voucher_id":"v-1","store":"no-such-store"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "loja não encontrada", envelope["error"])
}

func TestCheckoutPIXWithEmptyCart(t *testing.T) {
	srv, _ := newTestConsole(t, catalogBackend(t))

	rec := doJSON(t, srv, http.MethodPost, "/api/checkout/pix", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "seu carrinho está vazio", envelope["error"])
}

func TestConfirmationConsumedOnce(t *testing.T) {
	srv, store := newTestConsole(t, catalogBackend(t))
	require.NoError(t, store.SaveLastPayment(&api.Payment{ID: "pay-1", Status: api.PaymentConfirmed, Amount: 5.0}))

	rec := doJSON(t, srv, http.MethodGet, "/api/confirmation", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Reload: the cached result is gone.
	rec = doJSON(t, srv, http.MethodGet, "/api/confirmation", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminGroupIsGated(t *testing.T) {
	t.Run("anonymous gets 401", func(t *testing.T) {
		srv, _ := newTestConsole(t, catalogBackend(t))

		rec := doJSON(t, srv, http.MethodGet, "/api/admin/config", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("client role gets 403", func(t *testing.T) {
		srv, store := newTestConsole(t, catalogBackend(t))
		require.NoError(t, store.SaveToken("opaque-token"))
		require.NoError(t, store.SaveUser(&api.User{ID: "u-1", Role: api.RoleClient}))

		rec := doJSON(t, srv, http.MethodGet, "/api/admin/config", "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin role passes through", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/admin/config", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(api.AdminConfig{
				CompanyData: &api.CompanyData{Name: "Minha Loja", Slug: "minha-loja"},
			})
		})
		srv, store := newTestConsole(t, mux)
		require.NoError(t, store.SaveToken("opaque-token"))
		require.NoError(t, store.SaveUser(&api.User{ID: "u-1", Role: api.RoleAdmin}))

		rec := doJSON(t, srv, http.MethodGet, "/api/admin/config", "")

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec)["data"].(map[string]any)
		company := data["company_data"].(map[string]any)
		assert.Equal(t, "minha-loja", company["slug"])
	})
}

func TestBackendErrorsArePreserved(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Credenciais inválidas"})
	})
	srv, _ := newTestConsole(t, mux)

	rec := doJSON(t, srv, http.MethodPost, "/api/session/login",
		`{"email":"maria@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Credenciais inválidas", envelope["error"])
}
