package chanscript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryMatch(t *testing.T) {
	depositHex, err := CompileDepositScript(testPayerPubkey, testPayeePubkey, testSpendSecretHash, testExpireTime)
	require.NoError(t, err)
	commitHex, err := CompileCommitScript(testPayerPubkey, testPayeePubkey, testSpendSecretHash, testRevokeSecretHash, testDelayTime)
	require.NoError(t, err)

	r := DefaultRegistry()

	kind, err := r.Match(depositHex)
	require.NoError(t, err)
	require.Equal(t, KindDeposit, kind)

	kind, err = r.Match(commitHex)
	require.NoError(t, err)
	require.Equal(t, KindCommit, kind)

	_, err = r.Match("deadbeef")
	require.Error(t, err)
	require.True(t, IsInvalidScript(err))
}

func TestRegistryPushPopIsLIFO(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, 0, len(r.matchers))

	r.Push(KindDeposit, ValidateDepositScript)
	r.Push(KindCommit, ValidateCommitScript)
	require.Equal(t, KindCommit, r.matchers[0].kind)

	r.Pop()
	require.Equal(t, KindDeposit, r.matchers[0].kind)

	r.Pop()
	require.Equal(t, 0, len(r.matchers))

	// Popping an empty registry is a no-op, not a panic.
	r.Pop()
}

func TestWithTemplateScopesRegistration(t *testing.T) {
	r := NewRegistry()

	called := false
	err := WithTemplate(r, KindDeposit, ValidateDepositScript, func() error {
		called = true
		require.Equal(t, 1, len(r.matchers))
		return nil
	})
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, 0, len(r.matchers))
}

func TestSpendPathScriptKind(t *testing.T) {
	require.Equal(t, KindDeposit, SpendChangeRecover.ScriptKind())
	require.Equal(t, KindDeposit, SpendExpireRecover.ScriptKind())
	require.Equal(t, KindDeposit, SpendCreateCommit.ScriptKind())
	require.Equal(t, KindDeposit, SpendFinalizeCommit.ScriptKind())
	require.Equal(t, KindCommit, SpendPayoutRecover.ScriptKind())
	require.Equal(t, KindCommit, SpendRevokeRecover.ScriptKind())
	require.Equal(t, KindUnknown, SpendDeposit.ScriptKind())
}
