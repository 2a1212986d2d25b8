// Package renderer formats portfolio reports as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	portfolio "github.com/etnz/etfportfolio"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates, _ = fs.Sub(templatesFS, "templates")

// Summary is the data of the summary report.
type Summary struct {
	Mode      portfolio.Mode
	Valuation portfolio.Valuation
}

// HoldingReport is a priced holding with the transactions on its instrument.
type HoldingReport struct {
	portfolio.HoldingValuation
	Transactions []portfolio.Transaction
}

// RenderSummary renders totals and the holdings table.
func RenderSummary(s Summary) string {
	partials := map[string]string{
		"summary_totals":   "summary_totals.md",
		"summary_holdings": "summary_holdings.md",
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

// RenderHolding renders the detail of one holding.
func RenderHolding(h HoldingReport) string {
	partials := map[string]string{
		"transactions_table": "transactions_table.md",
	}
	return renderTemplate("holding", "holding.md", partials, h)
}

// RenderTransactions renders a transaction log under title.
func RenderTransactions(title string, txs []portfolio.Transaction) string {
	partials := map[string]string{
		"transactions_table": "transactions_table.md",
	}
	data := struct {
		Title        string
		Transactions []portfolio.Transaction
	}{title, txs}
	return renderTemplate("transactions", "transactions.md", partials, data)
}

// RenderCatalog renders the list of instruments.
func RenderCatalog(instruments []portfolio.Instrument) string {
	return renderTemplate("catalog", "catalog.md", nil, instruments)
}

// Transaction renders a transaction as a sentence.
func Transaction(tx portfolio.Transaction) string {
	switch tx.Command {
	case portfolio.CmdBuy:
		return fmt.Sprintf("Bought %s shares of %s at %s for %s", tx.Shares.Round(4), tx.ISIN, tx.Price, tx.Amount)
	case portfolio.CmdSell:
		return fmt.Sprintf("Sold %s shares of %s at %s for %s", tx.Shares.Round(4), tx.ISIN, tx.Price, tx.Amount)
	case portfolio.CmdDeposit:
		return fmt.Sprintf("Deposited %s", tx.Amount)
	case portfolio.CmdWithdrawal:
		return fmt.Sprintf("Withdrew %s", tx.Amount)
	default:
		return string(tx.Command)
	}
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
