package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRunAutoMatchRecordsSpans(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	env.svc.tracer = tp.Tracer(tracerName)

	member := env.fx.Member("山田工務店", "", "")
	inv := env.fx.Invoice(member, 150000)
	txn := env.fx.Transaction(150000, "山田工務店", "", txnDate)

	_, err := env.svc.RunAutoMatch(context.Background(), nil)
	require.NoError(t, err)

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range rec.Ended() {
		spans[s.Name()] = s
	}
	run, ok := spans["RunAutoMatch"]
	require.True(t, ok, "RunAutoMatch span not recorded")
	apply, ok := spans["ApplyMatch"]
	require.True(t, ok, "ApplyMatch span not recorded")

	assert.Equal(t, run.SpanContext().TraceID(), apply.SpanContext().TraceID())
	assert.Equal(t, run.SpanContext().SpanID(), apply.Parent().SpanID())

	matched, ok := spanAttr(run, "reconcile.matched")
	require.True(t, ok)
	assert.Equal(t, int64(1), matched.AsInt64())
	total, ok := spanAttr(run, "reconcile.total_candidates")
	require.True(t, ok)
	assert.Equal(t, int64(1), total.AsInt64())

	txnID, ok := spanAttr(apply, "reconcile.bank_txn_id")
	require.True(t, ok)
	assert.Equal(t, int64(txn.ID), txnID.AsInt64())
	target, ok := spanAttr(apply, "reconcile.target")
	require.True(t, ok)
	assert.Equal(t, string(TargetInvoice), target.AsString())
	targetID, ok := spanAttr(apply, "reconcile.target_id")
	require.True(t, ok)
	assert.Equal(t, int64(inv.ID), targetID.AsInt64())
}

func TestApplyMatchSpanRecordsRollback(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	env.svc.tracer = tp.Tracer(tracerName)

	member := env.fx.Member("山田工務店", "", "")
	inv := env.fx.Invoice(member, 150000)
	txn := env.fx.Transaction(150000, "山田工務店", "", txnDate)
	env.fx.Bundle(member, inv, env.fx.Invoice(member, 50000))

	_, err := env.svc.applyMatch(context.Background(), MatchResult{
		TransactionID: txn.ID,
		Target:        Candidate{Kind: TargetInvoice, ID: inv.ID, Number: inv.InvoiceNo, Amount: inv.TotalAmount},
		Amount:        inv.TotalAmount,
		Rule:          RuleInvoiceAmount,
	})
	require.ErrorIs(t, err, ErrConflict)

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "ApplyMatch", ended[0].Name())
	assert.Equal(t, "match rolled back", ended[0].Status().Description)
	assert.NotEmpty(t, ended[0].Events())
}
