package checkout

import "strings"

// rejectionMessages maps gateway rejection-reason substrings to user-facing
// messages. Checked in order; first match wins.
var rejectionMessages = []struct {
	substr  string
	message string
}{
	{"cc_rejected_insufficient_amount", "Cartão sem saldo suficiente para esta compra."},
	{"cc_rejected_bad_filled_security_code", "Código de segurança (CVV) inválido. Verifique e tente novamente."},
	{"cc_rejected_bad_filled_date", "Data de validade incorreta. Verifique e tente novamente."},
	{"cc_rejected_bad_filled_card_number", "Número do cartão inválido. Verifique e tente novamente."},
	{"cc_rejected_bad_filled_other", "Revise os dados do cartão e tente novamente."},
	{"cc_rejected_card_disabled", "Cartão desabilitado. Entre em contato com o seu banco para ativá-lo."},
	{"cc_rejected_call_for_authorize", "O pagamento precisa ser autorizado pelo seu banco. Ligue para o número no verso do cartão."},
	{"cc_rejected_max_attempts", "Muitas tentativas seguidas. Aguarde alguns minutos e tente novamente."},
	{"cc_rejected_duplicated_payment", "Você já fez um pagamento com esse valor. Se precisar pagar novamente, use outro cartão."},
	{"cc_rejected_blacklist", "Pagamento não autorizado pelo banco emissor."},
	{"cc_rejected_high_risk", "Pagamento recusado por segurança. Tente outro meio de pagamento."},
	{"pending_contingency", "Pagamento em análise. Você será avisado quando for aprovado."},
	{"pending_review_manual", "Pagamento em análise manual. Você será avisado quando for aprovado."},
}

// genericRejected is used when the reason text signals a rejection but
// matches no specific rule.
const genericRejected = "Pagamento não autorizado. Verifique os dados do cartão ou tente outro meio de pagamento."

var rejectionKeywords = []string{"cc_rejected", "rejected", "recusado", "não autorizado"}

// genericPending is used for an in-review charge with no specific reason.
const genericPending = "Pagamento em análise. Você será avisado quando for aprovado."

// pendingMessage normalizes the status detail of a charge left in review.
func pendingMessage(detail string) string {
	if detail == "" {
		return genericPending
	}
	return RejectionMessage(detail)
}

// RejectionMessage normalizes a gateway rejection reason into a user-facing
// message. Unmatched reasons containing a rejection keyword fall back to a
// generic message; anything else is surfaced verbatim.
func RejectionMessage(detail string) string {
	if detail == "" {
		return genericRejected
	}
	lower := strings.ToLower(detail)
	for _, rule := range rejectionMessages {
		if strings.Contains(lower, rule.substr) {
			return rule.message
		}
	}
	for _, kw := range rejectionKeywords {
		if strings.Contains(lower, kw) {
			return genericRejected
		}
	}
	return detail
}
