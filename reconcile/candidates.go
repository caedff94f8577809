package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"github.com/yourusername/solarlink-recon/models"
)

// Suggestion is one invoice or bundle an operator might pair with a bank transaction.
type Suggestion struct {
	Kind            TargetKind      `json:"kind"`
	ID              uint            `json:"id"`
	Number          string          `json:"number"`
	MemberName      string          `json:"member_name"`
	Amount          decimal.Decimal `json:"amount"`
	Difference      decimal.Decimal `json:"difference"`
	ExactAmount     bool            `json:"exact_amount"`
	NameScore       float64         `json:"name_score"`
	WithinTolerance bool            `json:"within_tolerance"`
}

// SuggestCandidates ranks unpaid bundles and invoices for a manual match against the given
// transaction: exact amounts first, then by the smallest amount gap, then by payer-name
// similarity. limit <= 0 returns every candidate.
func (s *Service) SuggestCandidates(ctx context.Context, txnID uint, limit int) ([]Suggestion, error) {
	txn, err := s.store.GetTransaction(ctx, txnID)
	if err != nil {
		return nil, fmt.Errorf("bank transaction %d: %w", txnID, err)
	}
	tolerance, err := s.settings.PaymentTolerance(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payment tolerance: %w", err)
	}
	bundles, err := s.store.UnpaidBundles(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.store.UnpaidInvoices(ctx)
	if err != nil {
		return nil, err
	}

	candidates := append(bundleCandidates(bundles), invoiceCandidates(invoices)...)
	suggestions := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		diff := txn.Amount.Sub(c.Amount)
		suggestions = append(suggestions, Suggestion{
			Kind:            c.Kind,
			ID:              c.ID,
			Number:          c.Number,
			MemberName:      c.Payer.Name,
			Amount:          c.Amount,
			Difference:      diff,
			ExactAmount:     diff.IsZero(),
			NameScore:       nameScore(*txn, c.Payer),
			WithinTolerance: diff.Abs().LessThanOrEqual(tolerance),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.ExactAmount != b.ExactAmount {
			return a.ExactAmount
		}
		if c := a.Difference.Abs().Cmp(b.Difference.Abs()); c != 0 {
			return c < 0
		}
		return a.NameScore > b.NameScore
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// nameScore is 1 for names the matcher would accept, otherwise the best levenshtein ratio
// between the transfer's names and the member's registered names.
func nameScore(txn models.BankTransaction, p Payer) float64 {
	if PayerMatches(txn, p) {
		return 1
	}
	registered := p.PayerName
	if registered == "" {
		registered = p.Name
	}
	return max(similarity(txn.PayerName, registered), similarity(txn.PayerNameKana, p.PayerNameKana))
}

func similarity(a, b string) float64 {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	return levenshtein.RatioForStrings([]rune(na), []rune(nb), levenshtein.DefaultOptions)
}
