package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/solarlink-recon/ledger/ledgertest"
)

func TestSuggestCandidates(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	yamada := env.fx.Member("山田工務店", "ヤマダコウムテン", "")
	sato := env.fx.Member("佐藤電設", "サトウデンセツ", "")

	satoExact := env.fx.Invoice(sato, 150000)
	yamadaClose := env.fx.Invoice(yamada, 149500)
	yamadaExact := env.fx.Invoice(yamada, 150000)
	far := env.fx.Invoice(sato, 300000)
	txn := env.fx.Transaction(150000, "ヤマダコウムテン", "", txnDate)

	suggestions, err := env.svc.SuggestCandidates(ctx, txn.ID, 0)
	require.NoError(t, err)
	require.Len(t, suggestions, 4)

	assert.Equal(t, yamadaExact.ID, suggestions[0].ID)
	assert.True(t, suggestions[0].ExactAmount)
	assert.Equal(t, 1.0, suggestions[0].NameScore)
	assert.Equal(t, "山田工務店", suggestions[0].MemberName)

	assert.Equal(t, satoExact.ID, suggestions[1].ID)
	assert.True(t, suggestions[1].ExactAmount)
	assert.Less(t, suggestions[1].NameScore, 1.0)

	assert.Equal(t, yamadaClose.ID, suggestions[2].ID)
	assert.False(t, suggestions[2].ExactAmount)
	assert.True(t, ledgertest.Yen(500).Equal(suggestions[2].Difference))
	assert.True(t, suggestions[2].WithinTolerance)

	assert.Equal(t, far.ID, suggestions[3].ID)
	assert.True(t, ledgertest.Yen(-150000).Equal(suggestions[3].Difference))
	assert.False(t, suggestions[3].WithinTolerance)

	top, err := env.svc.SuggestCandidates(ctx, txn.ID, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestSuggestCandidatesIncludesBundles(t *testing.T) {
	env := newTestEnv(t, nil)

	member := env.fx.Member("山田工務店", "", "")
	bundle := env.fx.Bundle(member, env.fx.Invoice(member, 100000), env.fx.Invoice(member, 50000))
	txn := env.fx.Transaction(150000, "山田工務店", "", txnDate)

	suggestions, err := env.svc.SuggestCandidates(context.Background(), txn.ID, 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, TargetBundle, suggestions[0].Kind)
	assert.Equal(t, bundle.ID, suggestions[0].ID)
}

func TestSuggestCandidatesUnknownTransaction(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.svc.SuggestCandidates(context.Background(), 404, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}
