package checkout

import (
	"strings"
	"testing"
)

func TestRejectionMessage(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		want   string
	}{
		{
			name:   "insufficient amount",
			detail: "cc_rejected_insufficient_amount",
			want:   "Cartão sem saldo suficiente para esta compra.",
		},
		{
			name:   "bad security code",
			detail: "cc_rejected_bad_filled_security_code",
			want:   "Código de segurança (CVV) inválido. Verifique e tente novamente.",
		},
		{
			name:   "bad expiry date",
			detail: "cc_rejected_bad_filled_date",
			want:   "Data de validade incorreta. Verifique e tente novamente.",
		},
		{
			name:   "bad card number",
			detail: "cc_rejected_bad_filled_card_number",
			want:   "Número do cartão inválido. Verifique e tente novamente.",
		},
		{
			name:   "card disabled",
			detail: "cc_rejected_card_disabled",
			want:   "Cartão desabilitado. Entre em contato com o seu banco para ativá-lo.",
		},
		{
			name:   "matches inside a longer backend message",
			detail: "Pagamento recusado: cc_rejected_call_for_authorize",
			want:   "O pagamento precisa ser autorizado pelo seu banco. Ligue para o número no verso do cartão.",
		},
		{
			name:   "unknown rejection code falls back to generic",
			detail: "cc_rejected_other_reason",
			want:   genericRejected,
		},
		{
			name:   "portuguese rejection keyword falls back to generic",
			detail: "pagamento recusado pelo emissor",
			want:   genericRejected,
		},
		{
			name:   "empty detail falls back to generic",
			detail: "",
			want:   genericRejected,
		},
		{
			name:   "unrelated backend error is surfaced verbatim",
			detail: "Pedido não encontrado",
			want:   "Pedido não encontrado",
		},
		{
			name:   "pending review is informational, not a rejection",
			detail: "pending_review_manual",
			want:   "Pagamento em análise manual. Você será avisado quando for aprovado.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RejectionMessage(tt.detail); got != tt.want {
				t.Errorf("RejectionMessage(%q) = %q, want %q", tt.detail, got, tt.want)
			}
		})
	}
}

func TestRejectionMessageIsCaseInsensitive(t *testing.T) {
	got := RejectionMessage("CC_REJECTED_INSUFFICIENT_AMOUNT")
	if !strings.Contains(got, "sem saldo") {
		t.Errorf("uppercase detail not normalized, got %q", got)
	}
}
