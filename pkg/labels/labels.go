// Package labels holds the display names used for exported results.
package labels

import (
	"golang.org/x/text/language"
)

// Labels names every row of an export.
type Labels struct {
	Tag                 language.Tag
	Category            string
	AmountColumn        string
	ListedPrice         string
	Discount1           string
	Discount2           string
	FixedDiscount       string
	DepositPaid         string
	LoanRatio           string
	InterestRate        string
	LoanTerm            string
	Utilisation         string
	NetPrice            string
	NetNetPrice         string
	MaxLoan             string
	CashDeposit         string
	MonthlyRepayment    string
	TotalRepayment      string
	TotalInterest       string
	StampDuty           string
	TotalCashRequired   string
	GrossRent           string
	RecurringFee        string
	NetRent             string
	MonthlyProfit       string
	ExchangeRate        string
	FallbackRateWarning string
}

// English is the default label set.
var English = Labels{
	Tag:                 language.English,
	Category:            "Category",
	AmountColumn:        "%s Amount",
	ListedPrice:         "SPA Price",
	Discount1:           "Discount 1",
	Discount2:           "Discount 2",
	FixedDiscount:       "Other Discount or Cashback",
	DepositPaid:         "Initial Deposit Paid",
	LoanRatio:           "Loan Ratio",
	InterestRate:        "Interest Rate",
	LoanTerm:            "Loan Term (Years)",
	Utilisation:         "Utilisation Rate",
	NetPrice:            "Net Price",
	NetNetPrice:         "Net Net Price",
	MaxLoan:             "Maximum Loan Amount",
	CashDeposit:         "Cash Deposit (after loan)",
	MonthlyRepayment:    "Monthly Loan Repayment",
	TotalRepayment:      "Total Loan Repayment",
	TotalInterest:       "Total Loan Interest",
	StampDuty:           "Stamp Duty",
	TotalCashRequired:   "Total Cash Required (including all costs)",
	GrossRent:           "Gross Rental Income (Monthly)",
	RecurringFee:        "Service Charge (Monthly)",
	NetRent:             "Net Rental Income (Monthly)",
	MonthlyProfit:       "Monthly Net Profit",
	ExchangeRate:        "Exchange Rate",
	FallbackRateWarning: "FX rate unavailable, using default %.4f",
}

// Chinese is the simplified Chinese label set.
var Chinese = Labels{
	Tag:                 language.SimplifiedChinese,
	Category:            "类别",
	AmountColumn:        "%s 金额",
	ListedPrice:         "买卖协议价格",
	Discount1:           "折扣1",
	Discount2:           "折扣2",
	FixedDiscount:       "其他折扣或回扣",
	DepositPaid:         "已支付定金",
	LoanRatio:           "贷款比例",
	InterestRate:        "贷款利率",
	LoanTerm:            "贷款年限（年）",
	Utilisation:         "入住率",
	NetPrice:            "净价格",
	NetNetPrice:         "净净价格",
	MaxLoan:             "最大贷款金额",
	CashDeposit:         "贷款后现金支付",
	MonthlyRepayment:    "每月贷款还款",
	TotalRepayment:      "贷款还款总额",
	TotalInterest:       "贷款利息总额",
	StampDuty:           "印花税",
	TotalCashRequired:   "总现金需求（包括所有费用）",
	GrossRent:           "每月毛租金收入",
	RecurringFee:        "每月管理费",
	NetRent:             "每月净租金收入",
	MonthlyProfit:       "每月净盈利",
	ExchangeRate:        "汇率",
	FallbackRateWarning: "汇率接口错误，使用默认汇率 %.4f",
}

var (
	supported = []Labels{English, Chinese}
	matcher   = language.NewMatcher([]language.Tag{English.Tag, Chinese.Tag})
)

// For returns the label set best matching a BCP 47 tag or Accept-Language
// value. Unknown or empty input selects English.
func For(lang string) Labels {
	if lang == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return English
	}
	return supported[index]
}

// Supported reports whether lang matches a label set other than by default.
func Supported(lang string) bool {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return false
	}
	_, _, confidence := matcher.Match(tags...)
	return confidence != language.No
}
