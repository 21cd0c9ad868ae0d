package web

import (
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Deyveson/Projeto-cit/internal/api"
	"github.com/Deyveson/Projeto-cit/internal/checkout"
)

// homeTemplate is the single server-rendered view; everything interactive
// goes through the /api endpoints.
const homeTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Storefront</title>
<style>
  body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #ddd; }
  .muted { color: #666; }
  code { background: #f4f4f4; padding: .1rem .3rem; }
</style>
</head>
<body>
<h1>Storefront</h1>
{{if .User}}
  <p>Logado como <strong>{{.User.Name}}</strong> ({{.User.Email}}) · saldo: {{printf "%.1f" .User.HoursBalance}} horas</p>
{{else}}
  <p class="muted">Você não está logado. Use <code>POST /api/session/login</code>.</p>
{{end}}

<h2>Pacotes</h2>
{{if .Vouchers}}
<table>
  <tr><th>Pacote</th><th>Horas</th><th>Preço</th></tr>
  {{range .Vouchers}}
  <tr><td>{{.Name}}</td><td>{{hours .Hours}}</td><td>{{price .Price}}</td></tr>
  {{end}}
</table>
{{else}}
<p class="muted">Nenhum pacote disponível no momento.</p>
{{end}}

{{if .Cart}}
<h2>Carrinho</h2>
<p>{{.Cart.Name}} ({{hours .Cart.Hours}}) · total {{price .Cart.Price}}</p>
{{end}}

<h2>API</h2>
<p class="muted">Catálogo, carrinho, checkout e administração em <code>/api</code>.</p>
</body>
</html>`

type homeData struct {
	User     *api.User
	Vouchers []api.Voucher
	Cart     *api.Voucher
}

func newHomeTemplate() *template.Template {
	return template.Must(template.New("home").Funcs(template.FuncMap{
		"price": checkout.FormatPrice,
		"hours": checkout.FormatHours,
	}).Parse(homeTemplate))
}

func (s *Server) handleHome(c *gin.Context) {
	data := homeData{}

	if s.session.Authenticated() {
		if user, err := s.session.User(); err == nil {
			data.User = user
		}
	}
	if voucher, err := s.session.SelectedVoucher(); err == nil {
		data.Cart = voucher
	}
	// Catalog failures degrade to an empty listing; the page still renders.
	vouchers, err := s.client.Vouchers(c.Request.Context())
	if err != nil {
		log.Printf("warning: failed to load catalog: %v", err)
	}
	data.Vouchers = vouchers

	c.HTML(http.StatusOK, "home", data)
}
