// Package output turns a valuation result into ordered rows and renders them
// as CSV or as a human-readable table.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/property-pnl/internal/valuation"
	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/iwvelando/property-pnl/pkg/format"
	"github.com/iwvelando/property-pnl/pkg/labels"
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

// Row kinds.
const (
	KindMoney   = "money"
	KindPercent = "percent"
	KindCount   = "count"
)

// Row is one exported line. Foreign is set on money rows only.
type Row struct {
	Label   string   `json:"label"`
	Kind    string   `json:"kind"`
	Amount  float64  `json:"amount"`
	Foreign *float64 `json:"foreign,omitempty"`
}

// Report is everything needed to render one calculation.
type Report struct {
	Rows            []Row
	Labels          labels.Labels
	HomeCurrency    string
	ForeignCurrency string
	Rate            float64
	Warning         string
}

// NewReport builds the ordered rows for result: echoed inputs first, then
// the derived amounts.
func NewReport(input valuation.PurchaseInput, result valuation.Result, l labels.Labels, foreignCurrency string) Report {
	rate := result.ForeignCurrencyRate
	money := func(label string, amount, foreign float64) Row {
		return Row{Label: label, Kind: KindMoney, Amount: amount, Foreign: &foreign}
	}
	echo := func(label string, amount float64) Row {
		return money(label, amount, amount/rate)
	}
	percent := func(label string, value float64) Row {
		return Row{Label: label, Kind: KindPercent, Amount: value}
	}

	f := result.Foreign
	rows := []Row{
		echo(l.ListedPrice, input.ListedPrice),
		percent(l.Discount1, input.DiscountPercent1),
		percent(l.Discount2, input.DiscountPercent2),
		echo(l.FixedDiscount, input.FixedDiscount),
		echo(l.DepositPaid, input.DepositPaid),
		percent(l.LoanRatio, input.LoanRatioPercent),
		percent(l.InterestRate, input.AnnualInterestRatePercent),
		{Label: l.LoanTerm, Kind: KindCount, Amount: float64(input.LoanTermYears)},
		percent(l.Utilisation, input.Rental.UtilisationPercent),
		money(l.NetPrice, result.NetPrice, f.NetPrice),
		money(l.NetNetPrice, result.NetNetPrice, f.NetNetPrice),
		money(l.MaxLoan, result.MaxLoanAmount, f.MaxLoanAmount),
		money(l.CashDeposit, result.CashDeposit, f.CashDeposit),
		money(l.MonthlyRepayment, result.MonthlyRepayment, f.MonthlyRepayment),
		money(l.TotalRepayment, result.TotalRepayment, f.TotalRepayment),
		money(l.TotalInterest, result.TotalInterest, f.TotalInterest),
		money(l.StampDuty, result.StampDuty, f.StampDuty),
		money(l.TotalCashRequired, result.TotalCashRequired, f.TotalCashRequired),
		money(l.GrossRent, result.GrossMonthlyRent, f.GrossMonthlyRent),
		money(l.RecurringFee, result.RecurringFee, f.RecurringFee),
		money(l.NetRent, result.NetMonthlyRent, f.NetMonthlyRent),
		money(l.MonthlyProfit, result.MonthlyProfit, f.MonthlyProfit),
	}

	if foreignCurrency == "" {
		foreignCurrency = constants.DefaultForeignCurrency
	}
	return Report{
		Rows:            rows,
		Labels:          l,
		HomeCurrency:    constants.HomeCurrency,
		ForeignCurrency: foreignCurrency,
		Rate:            rate,
	}
}

// WithFallbackWarning records that the rate is a substituted default.
func (r Report) WithFallbackWarning() Report {
	r.Warning = fmt.Sprintf(r.Labels.FallbackRateWarning, r.Rate)
	return r
}

// ForeignAmount returns the foreign column, or zero for rows without one.
func (row Row) ForeignAmount() float64 {
	if row.Foreign == nil {
		return 0
	}
	return *row.Foreign
}

// Cells renders the home and foreign columns of a row. Percent and count rows
// leave the foreign column empty.
func (row Row) Cells() (home, foreign string) {
	switch row.Kind {
	case KindPercent:
		return format.Percent(row.Amount), ""
	case KindCount:
		return strconv.FormatFloat(row.Amount, 'f', -1, 64), ""
	default:
		if row.Foreign == nil {
			return roundedAmount(row.Amount), ""
		}
		return roundedAmount(row.Amount), roundedAmount(*row.Foreign)
	}
}

func roundedAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// CsvFormat writes the report as comma-separated values with a
// Category / <home> Amount / <foreign> Amount header.
func CsvFormat(w io.Writer, report Report) error {
	writer := csv.NewWriter(w)
	header := []string{
		report.Labels.Category,
		fmt.Sprintf(report.Labels.AmountColumn, report.HomeCurrency),
		fmt.Sprintf(report.Labels.AmountColumn, report.ForeignCurrency),
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range report.Rows {
		home, foreign := row.Cells()
		if err := writer.Write([]string{row.Label, home, foreign}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV rendering of report.
func CsvString(report Report) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, report); err != nil {
		return ""
	}
	return buf.String()
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, report Report) {
	p := message.NewPrinter(report.Labels.Tag)

	_, _ = p.Fprintf(w, "--- %s: 1 %s = %.4f %s ---\n",
		report.Labels.ExchangeRate, report.ForeignCurrency, report.Rate, report.HomeCurrency)
	if report.Warning != "" {
		_, _ = fmt.Fprintf(w, "!!! %s\n", report.Warning)
	}
	_, _ = fmt.Fprintf(w, "%s | %s | %s\n", report.Labels.Category,
		fmt.Sprintf(report.Labels.AmountColumn, report.HomeCurrency),
		fmt.Sprintf(report.Labels.AmountColumn, report.ForeignCurrency))
	_, _ = fmt.Fprintf(w, "________ | __________ | __________\n")

	for _, row := range report.Rows {
		switch row.Kind {
		case KindMoney:
			_, _ = p.Fprintf(w, "%s | %.2f | %.2f\n", row.Label, row.Amount, row.ForeignAmount())
		default:
			home, _ := row.Cells()
			_, _ = fmt.Fprintf(w, "%s | %s | -\n", row.Label, home)
		}
	}
}
