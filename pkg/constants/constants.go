// Package constants provides shared constants for the property-pnl application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerMonth is the fixed month length used for rental income. It is not
	// calendar accurate.
	DaysPerMonth = 30

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Currency constants
const (
	// HomeCurrency is the currency every input amount is denominated in.
	HomeCurrency = "MYR"

	// DefaultForeignCurrency is the currency results are projected into.
	DefaultForeignCurrency = "NZD"

	// DefaultFallbackRate is the MYR per NZD rate used when no live rate can
	// be retrieved.
	DefaultFallbackRate = 2.5655

	// DefaultRateEndpoint serves {"rates": {"<SYMBOL>": <rate>}} payloads.
	DefaultRateEndpoint = "https://api.exchangerate.host/latest"

	// DefaultRateTimeoutSeconds bounds a single live rate lookup.
	DefaultRateTimeoutSeconds = 5

	// DefaultRateCacheTTLMinutes is how long a live rate is reused.
	DefaultRateCacheTTLMinutes = 60
)

// Valuation option names
const (
	// LoanBasisListed sizes the loan from the listed (SPA) price.
	LoanBasisListed = "listed"

	// LoanBasisNetNet sizes the loan from the price after every discount.
	LoanBasisNetNet = "netNet"

	// StampDutyPolicyTiered applies the marginal tier schedule.
	StampDutyPolicyTiered = "tiered"

	// StampDutyPolicyFlat applies a single percentage of the price.
	StampDutyPolicyFlat = "flat"

	// DefaultFlatStampDutyPercent is the flat stamp duty rate.
	DefaultFlatStampDutyPercent = 0.5
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// ExportFileName is the attachment name used for CSV downloads.
	ExportFileName = "results.csv"
)

// Language constants
const (
	// LanguageEnglish is the default label language.
	LanguageEnglish = "en"

	// LanguageChinese selects the simplified Chinese labels.
	LanguageChinese = "zh"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes every environment override, e.g. PROPERTY_PNL_FX_MANUALRATE.
	EnvPrefix = "PROPERTY_PNL"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum JSON request size (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024

	// DefaultRateLimitRequests is the number of requests a client may make per window.
	DefaultRateLimitRequests = 60

	// DefaultRateLimitWindowSeconds is the rate limit refill window.
	DefaultRateLimitWindowSeconds = 60
)
