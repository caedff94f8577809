package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/solarlink-recon/models"
	"golang.org/x/text/unicode/norm"
)

// TargetKind names the settlement unit a payment points at.
type TargetKind string

const (
	TargetInvoice TargetKind = "invoice"
	TargetBundle  TargetKind = "bundle"
)

// MatchRule records which matcher rule produced an automatic match.
type MatchRule string

const (
	RuleBundleAmountName  MatchRule = "bundle_amount_name"
	RuleBundleAmount      MatchRule = "bundle_amount"
	RuleInvoiceAmountName MatchRule = "invoice_amount_name"
	RuleInvoiceAmount     MatchRule = "invoice_amount"
)

// Payer is the name information a member registers for recognizing its transfers.
type Payer struct {
	Name          string
	PayerName     string
	PayerNameKana string
}

// Candidate is an unpaid invoice or bundle as seen by the matcher.
type Candidate struct {
	Kind   TargetKind
	ID     uint
	Number string
	Amount decimal.Decimal
	Payer  Payer
}

// MatchResult is the matcher's decision for one bank transaction. Automatic matches are
// exact by construction, so Difference is always zero.
type MatchResult struct {
	TransactionID uint
	Target        Candidate
	Amount        decimal.Decimal
	Difference    decimal.Decimal
	Rule          MatchRule
}

// FindMatch picks the settlement unit for txn. Bundles are tried before invoices, and within
// each kind an amount+name match beats an amount-only match. The first candidate in slice order
// wins ties. Only exact amount equality counts.
func FindMatch(txn models.BankTransaction, bundles, invoices []Candidate) (*MatchResult, bool) {
	passes := []struct {
		candidates []Candidate
		needName   bool
		rule       MatchRule
	}{
		{bundles, true, RuleBundleAmountName},
		{bundles, false, RuleBundleAmount},
		{invoices, true, RuleInvoiceAmountName},
		{invoices, false, RuleInvoiceAmount},
	}

	for _, pass := range passes {
		for _, c := range pass.candidates {
			if !txn.Amount.Equal(c.Amount) {
				continue
			}
			if pass.needName && !PayerMatches(txn, c.Payer) {
				continue
			}
			return &MatchResult{
				TransactionID: txn.ID,
				Target:        c,
				Amount:        txn.Amount,
				Difference:    decimal.Zero,
				Rule:          pass.rule,
			}, true
		}
	}
	return nil, false
}

// PayerMatches reports whether the transfer's payer name matches the member's registered payer
// name (falling back to the member name), or the phonetic names match.
func PayerMatches(txn models.BankTransaction, p Payer) bool {
	registered := p.PayerName
	if registered == "" {
		registered = p.Name
	}
	return namesOverlap(txn.PayerName, registered) || namesOverlap(txn.PayerNameKana, p.PayerNameKana)
}

// namesOverlap is true when either normalized name contains the other. Empty names never match.
func namesOverlap(a, b string) bool {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// normalizeName applies NFKC (half-width katakana become full-width with voiced marks composed,
// full-width ASCII becomes ASCII), lower-cases, and drops whitespace, so bank-printed names
// compare with registered ones.
func normalizeName(s string) string {
	folded := strings.ToLower(norm.NFKC.String(s))
	return strings.Join(strings.Fields(folded), "")
}
