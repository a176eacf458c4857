package chanscript

import "encoding/hex"

// Word indices of the variable fields within a compiled deposit script,
// fixed by depositScriptTemplate's structure.
const (
	depositPayerPubkeyWord     = 2
	depositPayeePubkeyWord     = 3
	depositSpendSecretHashWord = 9
	depositExpireTimeWord      = 14
)

// Word indices of the variable fields within a compiled commit script,
// fixed by commitScriptTemplate's structure.
const (
	commitDelayTimeWord        = 1
	commitSpendSecretHashWord  = 5
	commitPayeePubkeyWord      = 7
	commitRevokeSecretHashWord = 11
	commitPayerPubkeyWord      = 13
)

// payoutSpendSecretWord is the word index of the revealed spend secret
// within a PAYOUT_RECOVER scriptSig ("{sig} {spend_secret} OP_1").
const payoutSpendSecretWord = 1

func decodeScriptHex(scriptHex string) ([]byte, error) {
	script, err := hex.DecodeString(scriptHex)
	if err != nil {
		return nil, newMalformedScriptError("decode script: bad hex: %v", err)
	}
	return script, nil
}

func getDataField(scriptHex string, index int) (string, error) {
	script, err := decodeScriptHex(scriptHex)
	if err != nil {
		return "", err
	}
	word, _, err := GetWord(script, index)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(word.Data), nil
}

func getSequenceField(scriptHex string, index int) (uint32, error) {
	script, err := decodeScriptHex(scriptHex)
	if err != nil {
		return 0, err
	}
	word, disasm, err := GetWord(script, index)
	if err != nil {
		return 0, err
	}
	return ParseSequenceValue(word, disasm)
}

// GetDepositPayerPubkey returns the payer's public key from a deposit
// script, hex-encoded.
func GetDepositPayerPubkey(scriptHex string) (string, error) {
	return getDataField(scriptHex, depositPayerPubkeyWord)
}

// GetDepositPayeePubkey returns the payee's public key from a deposit
// script, hex-encoded.
func GetDepositPayeePubkey(scriptHex string) (string, error) {
	return getDataField(scriptHex, depositPayeePubkeyWord)
}

// GetDepositSpendSecretHash returns the hash160 of the deposit spend
// secret, hex-encoded.
func GetDepositSpendSecretHash(scriptHex string) (string, error) {
	return getDataField(scriptHex, depositSpendSecretHashWord)
}

// GetDepositExpireTime returns the deposit script's timeout, as a
// CHECKSEQUENCEVERIFY-encoded relative sequence value.
func GetDepositExpireTime(scriptHex string) (uint32, error) {
	return getSequenceField(scriptHex, depositExpireTimeWord)
}

// GetCommitDelayTime returns the commit script's payout delay, as a
// CHECKSEQUENCEVERIFY-encoded relative sequence value.
func GetCommitDelayTime(scriptHex string) (uint32, error) {
	return getSequenceField(scriptHex, commitDelayTimeWord)
}

// GetCommitSpendSecretHash returns the hash160 of the commit spend
// secret, hex-encoded.
func GetCommitSpendSecretHash(scriptHex string) (string, error) {
	return getDataField(scriptHex, commitSpendSecretHashWord)
}

// GetCommitPayeePubkey returns the payee's public key from a commit
// script, hex-encoded.
func GetCommitPayeePubkey(scriptHex string) (string, error) {
	return getDataField(scriptHex, commitPayeePubkeyWord)
}

// GetCommitRevokeSecretHash returns the hash160 of the commit revoke
// secret, hex-encoded.
func GetCommitRevokeSecretHash(scriptHex string) (string, error) {
	return getDataField(scriptHex, commitRevokeSecretHashWord)
}

// GetCommitPayerPubkey returns the payer's public key from a commit
// script, hex-encoded.
func GetCommitPayerPubkey(scriptHex string) (string, error) {
	return getDataField(scriptHex, commitPayerPubkeyWord)
}

// GetSpendSecretFromPayout extracts the revealed spend secret from a
// scriptSig spending commitScriptHex, but only if that scriptSig is
// actually a PAYOUT_RECOVER spend of that specific commit script
// ("{sig} {spend_secret} OP_1 {commit_script}"). A revoke, change-recover,
// or finalize-commit scriptSig will not validate against this template
// and so is correctly rejected, even though some of them also carry a
// data push at word 1. Unlike the other field accessors this never
// errors: a scriptSig that is too short or the wrong shape just means no
// secret was revealed, which callers commonly need to check without
// threading an error path through.
func GetSpendSecretFromPayout(commitScriptHex, scriptSigHex string) ([]byte, bool) {
	refScript, err := CompileASM(sentinel + " " + sentinel + " OP_1 " + commitScriptHex)
	if err != nil {
		return nil, false
	}
	if err := ValidateAgainstReference(hex.EncodeToString(refScript), scriptSigHex); err != nil {
		return nil, false
	}

	script, err := decodeScriptHex(scriptSigHex)
	if err != nil {
		return nil, false
	}
	word, _, err := GetWord(script, payoutSpendSecretWord)
	if err != nil || !word.IsDataPush() {
		return nil, false
	}
	return word.Data, true
}
