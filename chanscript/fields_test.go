package chanscript

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDepositFieldAccessors(t *testing.T) {
	scriptHex, err := CompileDepositScript(testPayerPubkey, testPayeePubkey, testSpendSecretHash, testExpireTime)
	require.NoError(t, err)

	payer, err := GetDepositPayerPubkey(scriptHex)
	require.NoError(t, err)
	require.Equal(t, testPayerPubkey, payer)

	payee, err := GetDepositPayeePubkey(scriptHex)
	require.NoError(t, err)
	require.Equal(t, testPayeePubkey, payee)

	secretHash, err := GetDepositSpendSecretHash(scriptHex)
	require.NoError(t, err)
	require.Equal(t, testSpendSecretHash, secretHash)

	expireTime, err := GetDepositExpireTime(scriptHex)
	require.NoError(t, err)
	require.Equal(t, testExpireTime, expireTime)
}

func TestCommitFieldAccessors(t *testing.T) {
	scriptHex, err := CompileCommitScript(testPayerPubkey, testPayeePubkey, testSpendSecretHash, testRevokeSecretHash, testDelayTime)
	require.NoError(t, err)

	delayTime, err := GetCommitDelayTime(scriptHex)
	require.NoError(t, err)
	require.Equal(t, testDelayTime, delayTime)

	secretHash, err := GetCommitSpendSecretHash(scriptHex)
	require.NoError(t, err)
	require.Equal(t, testSpendSecretHash, secretHash)

	payee, err := GetCommitPayeePubkey(scriptHex)
	require.NoError(t, err)
	require.Equal(t, testPayeePubkey, payee)

	revokeHash, err := GetCommitRevokeSecretHash(scriptHex)
	require.NoError(t, err)
	require.Equal(t, testRevokeSecretHash, revokeHash)

	payer, err := GetCommitPayerPubkey(scriptHex)
	require.NoError(t, err)
	require.Equal(t, testPayerPubkey, payer)
}

func TestGetSpendSecretFromPayout(t *testing.T) {
	commitScriptHex, err := CompileCommitScript(testPayerPubkey, testPayeePubkey, testSpendSecretHash, testRevokeSecretHash, testDelayTime)
	require.NoError(t, err)

	secret := []byte("0123456789abcdef0123")
	asm := "aa " + hex.EncodeToString(secret) + " OP_1 " + commitScriptHex
	script, err := CompileASM(asm)
	require.NoError(t, err)

	got, ok := GetSpendSecretFromPayout(commitScriptHex, hex.EncodeToString(script))
	require.True(t, ok)
	require.Equal(t, secret, got)
}

func TestGetSpendSecretFromPayoutWrongShape(t *testing.T) {
	commitScriptHex, err := CompileCommitScript(testPayerPubkey, testPayeePubkey, testSpendSecretHash, testRevokeSecretHash, testDelayTime)
	require.NoError(t, err)

	script, err := CompileASM("OP_CHECKSIG")
	require.NoError(t, err)

	_, ok := GetSpendSecretFromPayout(commitScriptHex, hex.EncodeToString(script))
	require.False(t, ok)
}

// TestGetSpendSecretFromPayoutRejectsOtherSpendPaths confirms the three
// scriptSig shapes that also carry a data push at word 1 are rejected:
// a revoke scriptSig, a change-recover scriptSig, and a finalize-commit
// scriptSig.
func TestGetSpendSecretFromPayoutRejectsOtherSpendPaths(t *testing.T) {
	commitScriptHex, err := CompileCommitScript(testPayerPubkey, testPayeePubkey, testSpendSecretHash, testRevokeSecretHash, testDelayTime)
	require.NoError(t, err)
	depositScriptHex, err := CompileDepositScript(testPayerPubkey, testPayeePubkey, testSpendSecretHash, testExpireTime)
	require.NoError(t, err)

	sig := "aa"
	secret := hex.EncodeToString([]byte("some-secret-value"))

	revokeScript, err := CompileASM(sig + " " + secret + " OP_0 " + commitScriptHex)
	require.NoError(t, err)
	_, ok := GetSpendSecretFromPayout(commitScriptHex, hex.EncodeToString(revokeScript))
	require.False(t, ok)

	changeRecoverScript, err := CompileASM(sig + " " + secret + " OP_1 OP_0 " + depositScriptHex)
	require.NoError(t, err)
	_, ok = GetSpendSecretFromPayout(commitScriptHex, hex.EncodeToString(changeRecoverScript))
	require.False(t, ok)

	finalizeCommitScript, err := CompileASM("OP_0 " + sig + " " + sig + " OP_1 " + depositScriptHex)
	require.NoError(t, err)
	_, ok = GetSpendSecretFromPayout(commitScriptHex, hex.EncodeToString(finalizeCommitScript))
	require.False(t, ok)
}
