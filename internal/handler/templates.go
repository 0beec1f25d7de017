package handler

import "html/template"

// callbackPage is the guest-facing payment outcome page rendered after the
// gateway redirects the browser back to us.
const callbackPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Payment {{.Status}}</title>
</head>
<body>
  <h1>Payment {{.Status}}</h1>
  <p>{{.Message}}</p>
  {{if .BookingID}}<p>Booking: {{.BookingID}}</p>{{end}}
  {{if .Amount}}<p>Amount: {{.Amount}} {{.Currency}}</p>{{end}}
  {{if .TxRef}}<p>Reference: <code>{{.TxRef}}</code></p>{{end}}
</body>
</html>
`

// CallbackTemplate returns the parsed callback page template for the router.
func CallbackTemplate() *template.Template {
	return template.Must(template.New("callback").Parse(callbackPage))
}
