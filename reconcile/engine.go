package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/solarlink-recon/ledger"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RunSummary reports one auto-match run.
type RunSummary struct {
	RunID           uuid.UUID `json:"run_id"`
	MatchedCount    int       `json:"matched_count"`
	TotalCandidates int       `json:"total_candidates"`
	ConflictCount   int       `json:"conflict_count"`
	FailedCount     int       `json:"failed_count"`
}

const (
	outcomeMatched  = "matched"
	outcomeConflict = "conflict"
	outcomeFailed   = "failed"
)

type runDetail struct {
	BankTxnID uint       `json:"bank_txn_id"`
	Target    TargetKind `json:"target"`
	TargetID  uint       `json:"target_id"`
	Rule      MatchRule  `json:"rule"`
	PaymentID uint       `json:"payment_id,omitempty"`
	Outcome   string     `json:"outcome"`
	Error     string     `json:"error,omitempty"`
}

type targetKey struct {
	kind TargetKind
	id   uint
}

// RunAutoMatch pairs every unmatched bank transaction with an unpaid bundle or invoice and
// settles each pair in its own unit of work. A pair that conflicts with a concurrent writer or
// fails to persist is skipped and leaves no trace; the transaction stays unmatched for a later
// run. TotalCandidates is the number of unmatched transactions considered.
func (s *Service) RunAutoMatch(ctx context.Context, triggeredBy *uint) (*RunSummary, error) {
	ctx, span := s.tracer.Start(ctx, "RunAutoMatch")
	defer span.End()

	log := logger.WithComponent("auto-match")
	startedAt := s.now()

	txns, err := s.store.UnmatchedTransactions(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load transactions")
		return nil, err
	}
	invoices, err := s.store.UnpaidInvoices(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load invoices")
		return nil, err
	}
	bundles, err := s.store.UnpaidBundles(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load bundles")
		return nil, err
	}

	matches := planMatches(txns, bundleCandidates(bundles), invoiceCandidates(invoices))

	summary := &RunSummary{RunID: uuid.New(), TotalCandidates: len(txns)}
	details := make([]runDetail, 0, len(matches))
	for _, m := range matches {
		detail := runDetail{
			BankTxnID: m.TransactionID,
			Target:    m.Target.Kind,
			TargetID:  m.Target.ID,
			Rule:      m.Rule,
		}

		payment, err := s.applyMatch(ctx, m)
		switch {
		case err == nil:
			summary.MatchedCount++
			detail.Outcome = outcomeMatched
			detail.PaymentID = payment.ID
			log.Info().
				Uint("bank_txn_id", m.TransactionID).
				Str("target", string(m.Target.Kind)).
				Uint("target_id", m.Target.ID).
				Str("rule", string(m.Rule)).
				Msg("Matched bank transaction")
			s.notifySettled(ctx, *payment)
		case errors.Is(err, ErrConflict):
			summary.ConflictCount++
			detail.Outcome = outcomeConflict
			detail.Error = err.Error()
			log.Warn().Err(err).Uint("bank_txn_id", m.TransactionID).Msg("Match abandoned after concurrent update")
		default:
			summary.FailedCount++
			detail.Outcome = outcomeFailed
			detail.Error = err.Error()
			log.Error().Err(err).Uint("bank_txn_id", m.TransactionID).Msg("Match rolled back")
		}
		details = append(details, detail)
	}

	s.recordRun(ctx, summary, details, triggeredBy, startedAt)

	span.SetAttributes(
		attribute.Int("reconcile.total_candidates", summary.TotalCandidates),
		attribute.Int("reconcile.matched", summary.MatchedCount),
		attribute.Int("reconcile.conflicts", summary.ConflictCount),
		attribute.Int("reconcile.failed", summary.FailedCount),
	)
	log.Info().
		Str("run_id", summary.RunID.String()).
		Int("total_candidates", summary.TotalCandidates).
		Int("matched", summary.MatchedCount).
		Int("conflicts", summary.ConflictCount).
		Int("failed", summary.FailedCount).
		Msg("Auto-match run finished")
	return summary, nil
}

// planMatches walks txns in order and assigns each at most one candidate. A candidate taken by
// an earlier transaction is not offered to later ones.
func planMatches(txns []models.BankTransaction, bundles, invoices []Candidate) []MatchResult {
	consumed := make(map[uint]bool, len(txns))
	taken := make(map[targetKey]bool)
	var matches []MatchResult

	for _, txn := range txns {
		if consumed[txn.ID] {
			continue
		}
		m, ok := FindMatch(txn, available(bundles, taken), available(invoices, taken))
		if !ok {
			continue
		}
		consumed[txn.ID] = true
		taken[targetKey{m.Target.Kind, m.Target.ID}] = true
		matches = append(matches, *m)
	}
	return matches
}

func available(candidates []Candidate, taken map[targetKey]bool) []Candidate {
	if len(taken) == 0 {
		return candidates
	}
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !taken[targetKey{c.Kind, c.ID}] {
			out = append(out, c)
		}
	}
	return out
}

// applyMatch persists one automatic match: payment, consumed transaction and settlement commit
// together or not at all.
func (s *Service) applyMatch(ctx context.Context, m MatchResult) (*models.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "ApplyMatch")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("reconcile.bank_txn_id", int64(m.TransactionID)),
		attribute.String("reconcile.target", string(m.Target.Kind)),
		attribute.Int64("reconcile.target_id", int64(m.Target.ID)),
	)

	txnID := m.TransactionID
	payment := &models.Payment{
		BankTxnID: &txnID,
		Amount:    m.Amount,
		Status:    models.PaymentStatusMatched,
		MatchType: models.MatchTypeAuto,
		MatchRule: string(m.Rule),
		Note:      fmt.Sprintf("auto-match %s %s", m.Target.Kind, m.Target.Number),
	}
	targetID := m.Target.ID
	switch m.Target.Kind {
	case TargetBundle:
		payment.BundleID = &targetID
	default:
		payment.InvoiceID = &targetID
	}

	at := s.now()
	err := s.store.InUnit(ctx, func(u *ledger.Unit) error {
		if err := u.ConsumeTransaction(txnID); err != nil {
			return fmt.Errorf("consume transaction %d: %w", txnID, err)
		}
		if err := u.CreatePayment(payment); err != nil {
			return err
		}
		return settle(u, payment, at)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "match rolled back")
		return nil, err
	}
	return payment, nil
}

func (s *Service) recordRun(ctx context.Context, summary *RunSummary, details []runDetail, triggeredBy *uint, startedAt time.Time) {
	log := logger.WithComponent("auto-match")
	raw, err := json.Marshal(details)
	if err != nil {
		log.Error().Err(err).Msg("Could not encode run details")
		raw = []byte("[]")
	}
	completedAt := s.now()
	run := &models.ReconciliationRun{
		ID:              summary.RunID,
		TriggeredByID:   triggeredBy,
		TotalCandidates: summary.TotalCandidates,
		MatchedCount:    summary.MatchedCount,
		ConflictCount:   summary.ConflictCount,
		FailedCount:     summary.FailedCount,
		Status:          models.RunStatusCompleted,
		Details:         raw,
		StartedAt:       startedAt,
		CompletedAt:     &completedAt,
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		log.Error().Err(err).Str("run_id", summary.RunID.String()).Msg("Could not record auto-match run")
	}
}

// Run loads a recorded auto-match run.
func (s *Service) Run(ctx context.Context, id uuid.UUID) (*models.ReconciliationRun, error) {
	return s.store.GetRun(ctx, id)
}

func invoiceCandidates(invoices []models.Invoice) []Candidate {
	out := make([]Candidate, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, Candidate{
			Kind:   TargetInvoice,
			ID:     inv.ID,
			Number: inv.InvoiceNo,
			Amount: inv.TotalAmount,
			Payer:  payerOf(inv.Member),
		})
	}
	return out
}

func bundleCandidates(bundles []models.InvoiceBundle) []Candidate {
	out := make([]Candidate, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, Candidate{
			Kind:   TargetBundle,
			ID:     b.ID,
			Number: b.BundleNo,
			Amount: b.TotalAmount,
			Payer:  payerOf(b.Member),
		})
	}
	return out
}

func payerOf(m models.Member) Payer {
	return Payer{Name: m.Name, PayerName: m.PayerName, PayerNameKana: m.PayerNameKana}
}
