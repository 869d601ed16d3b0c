package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"horizon/internal/domain/account"
)

// Statement is everything the rendered bank statement shows.
type Statement struct {
	CustomerName string
	DownloadedAt time.Time
	Accounts     []*account.Detail
}

const statementTemplate = `<html>
  <head>
    <style>
      @page { margin: 40px; }
      body { font-family: Arial, sans-serif; margin: 0; padding: 0; }
      .report-header { margin-bottom: 20px; }
      .report-header h1 { margin: 0; font-size: 18px; }
      .report-header p { margin: 2px 0; font-size: 14px; }
      h2 { font-size: 16px; color: #1E40AF; margin-top: 0; }
      .account-summary {
        background-color: #3B82F6;
        color: white;
        padding: 16px 20px;
        border-radius: 8px;
        margin-bottom: 12px;
        box-shadow: 0 2px 6px rgba(0, 0, 0, 0.15);
      }
      .account-summary h2 { margin: 0 0 6px 0; font-size: 16px; }
      .account-summary p { margin: 2px 0; font-size: 13px; }
      table { width: 100%; border-collapse: collapse; margin-top: 8px; page-break-inside: auto; }
      thead { display: table-header-group; }
      tbody { display: table-row-group; }
      tr { page-break-inside: avoid; }
      th, td { padding: 8px; border-bottom: 1px solid #ddd; font-size: 12px; }
      th { background: #3B82F6; color: white; text-align: left; }
      tr:nth-child(even) { background: #f8f8f8; }
      .account-section + .account-section { page-break-before: always; }
    </style>
  </head>
  <body>
    <div class="report-header">
      <h1>Bank Statement</h1>
      <p><strong>Customer Name:</strong> {{.CustomerName}}</p>
      <p><strong>Downloaded on:</strong> {{formatDateTime .DownloadedAt}}</p>
    </div>
{{range .Accounts}}
    <div class="account-section">
      <div class="account-summary">
        <h2>{{.Account.Name}}</h2>
        <p><strong>Official Name:</strong> {{.Account.OfficialName}}</p>
        <p><strong>Mask:</strong> {{.Account.Mask}}</p>
        <p><strong>Balance:</strong> {{formatAmount .Account.CurrentBalance}}</p>
      </div>

      <table>
        <thead>
          <tr>
            <th>Transaction</th>
            <th>Amount</th>
            <th>Status</th>
            <th>Date</th>
            <th>Channel</th>
            <th>Category</th>
          </tr>
        </thead>
        <tbody>
{{range .Transactions}}
          <tr>
            <td>{{formatName .Name}}</td>
            <td>{{formatAmount .Amount}}</td>
            <td>{{formatStatus .Pending}}</td>
            <td>{{formatDateTime .Date}}</td>
            <td>{{formatChannel .PaymentChannel}}</td>
            <td>{{formatCategory .Category}}</td>
          </tr>
{{end}}
        </tbody>
      </table>
    </div>
{{end}}
  </body>
</html>
`

var statementTmpl = template.Must(template.New("statement").Funcs(template.FuncMap{
	"formatAmount":   FormatAmount,
	"formatName":     FormatTransactionName,
	"formatCategory": FormatCategory,
	"formatDateTime": FormatDateTime,
	"formatStatus":   FormatStatus,
	"formatChannel":  FormatChannel,
}).Parse(statementTemplate))

// Render produces the statement HTML. Account sections appear in the
// order given; a statement with zero accounts renders the header only.
func Render(s *Statement) (string, error) {
	var buf strings.Builder
	if err := statementTmpl.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("failed to render statement: %w", err)
	}
	return buf.String(), nil
}
