package chanscript

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
)

// sentinel is the placeholder content validate_against_reference treats as
// a wildcard data push: any candidate data push is accepted in its place.
const sentinel = "deadbeef"

// sequenceSentinel marks the one wildcard field (expire_time/delay_time)
// whose canonical encoding may be a minimal small-integer opcode
// (OP_0/OP_1..OP_16) rather than a literal data push, since CompileASM
// emits those for any in-range decimal token. Every other field is a
// pubkey or hash160 and is never encoded that way, so it keeps the
// stricter sentinel.
const sequenceSentinel = "cafe"

const depositScriptTemplate = `
OP_IF
    2 {payer_pubkey} {payee_pubkey} 2 OP_CHECKMULTISIG
OP_ELSE
    OP_IF
        OP_HASH160 {spend_secret_hash} OP_EQUALVERIFY
        {payer_pubkey} OP_CHECKSIG
    OP_ELSE
        {expire_time} OP_NOP3 OP_DROP
        {payer_pubkey} OP_CHECKSIG
    OP_ENDIF
OP_ENDIF
`

const commitScriptTemplate = `
OP_IF
    {delay_time} OP_NOP3 OP_DROP
    OP_HASH160 {spend_secret_hash} OP_EQUALVERIFY
    {payee_pubkey} OP_CHECKSIG
OP_ELSE
    OP_HASH160 {revoke_secret_hash} OP_EQUALVERIFY
    {payer_pubkey} OP_CHECKSIG
OP_ENDIF
`

func depositScriptASM(payerPubkey, payeePubkey, spendSecretHash, expireTime string) string {
	r := strings.NewReplacer(
		"{payer_pubkey}", payerPubkey,
		"{payee_pubkey}", payeePubkey,
		"{spend_secret_hash}", spendSecretHash,
		"{expire_time}", expireTime,
	)
	return r.Replace(depositScriptTemplate)
}

func commitScriptASM(payerPubkey, payeePubkey, spendSecretHash, revokeSecretHash, delayTime string) string {
	r := strings.NewReplacer(
		"{payer_pubkey}", payerPubkey,
		"{payee_pubkey}", payeePubkey,
		"{spend_secret_hash}", spendSecretHash,
		"{revoke_secret_hash}", revokeSecretHash,
		"{delay_time}", delayTime,
	)
	return r.Replace(commitScriptTemplate)
}

// CompileDepositScript compiles the deposit scriptPubKey locking a payer's
// funds into a channel: 2-of-2 multisig for cooperative progress, an early
// unilateral close given the spend secret, or a timeout refund to the
// payer after expireTime.
func CompileDepositScript(payerPubkeyHex, payeePubkeyHex, spendSecretHashHex string, expireTime uint32) (string, error) {
	asm := depositScriptASM(payerPubkeyHex, payeePubkeyHex, spendSecretHashHex,
		strconv.FormatUint(uint64(expireTime), 10))
	script, err := CompileASM(asm)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

// CompileCommitScript compiles the commit scriptPubKey recording an
// off-chain settlement state: payout to the payee after delayTime given
// the spend secret, or revocation by the payer given the revoke secret.
func CompileCommitScript(payerPubkeyHex, payeePubkeyHex, spendSecretHashHex, revokeSecretHashHex string, delayTime uint32) (string, error) {
	asm := commitScriptASM(payerPubkeyHex, payeePubkeyHex, spendSecretHashHex,
		revokeSecretHashHex, strconv.FormatUint(uint64(delayTime), 10))
	script, err := CompileASM(asm)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

func depositReferenceHex() (string, error) {
	script, err := CompileASM(depositScriptASM(sentinel, sentinel, sentinel, sequenceSentinel))
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

func commitReferenceHex() (string, error) {
	script, err := CompileASM(commitScriptASM(sentinel, sentinel, sentinel, sentinel, sequenceSentinel))
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

// ValidateAgainstReference walks reference and candidate word-by-word. A
// reference data push whose content is the sentinel is a wildcard,
// accepting any candidate data push in its place; a reference data push
// equal to sequenceSentinel is a wildcard accepting any candidate push at
// all, including a minimal small-integer opcode. Every other word must be
// byte-identical. Both scripts must end at the same time.
func ValidateAgainstReference(referenceHex, candidateHex string) error {
	log.Tracef("validating candidate %s against reference %s", candidateHex, referenceHex)
	ref, err := hex.DecodeString(referenceHex)
	if err != nil {
		return newMalformedScriptError("validate: bad reference hex: %v", err)
	}
	cand, err := hex.DecodeString(candidateHex)
	if err != nil {
		return newMalformedScriptError("validate: bad candidate hex: %v", err)
	}

	rOff, cOff := 0, 0
	for rOff < len(ref) && cOff < len(cand) {
		rWord, rNext, err := DecodeWord(ref, rOff)
		if err != nil {
			return err
		}
		cWord, cNext, err := DecodeWord(cand, cOff)
		if err != nil {
			return err
		}

		if rWord.IsDataPush() {
			switch hex.EncodeToString(rWord.Data) {
			case sentinel:
				if !cWord.IsDataPush() {
					return newInvalidScriptError(candidateHex)
				}
				rOff, cOff = rNext, cNext
				continue
			case sequenceSentinel:
				if !cWord.IsPush() {
					return newInvalidScriptError(candidateHex)
				}
				rOff, cOff = rNext, cNext
				continue
			}
		}

		if rWord.Opcode != cWord.Opcode || !bytes.Equal(rWord.Data, cWord.Data) {
			return newInvalidScriptError(candidateHex)
		}
		rOff, cOff = rNext, cNext
	}

	if rOff != len(ref) || cOff != len(cand) {
		return newInvalidScriptError(candidateHex)
	}
	return nil
}

// ValidateDepositScript confirms scriptHex has the exact shape of a
// deposit script. When checkSequence is true it additionally decodes the
// expire_time word to confirm it is a valid sequence value.
func ValidateDepositScript(scriptHex string, checkSequence bool) error {
	refHex, err := depositReferenceHex()
	if err != nil {
		return err
	}
	if err := ValidateAgainstReference(refHex, scriptHex); err != nil {
		return err
	}
	if checkSequence {
		if _, err := GetDepositExpireTime(scriptHex); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCommitScript confirms scriptHex has the exact shape of a commit
// script. When checkSequence is true it additionally decodes the
// delay_time word to confirm it is a valid sequence value.
func ValidateCommitScript(scriptHex string, checkSequence bool) error {
	refHex, err := commitReferenceHex()
	if err != nil {
		return err
	}
	if err := ValidateAgainstReference(refHex, scriptHex); err != nil {
		return err
	}
	if checkSequence {
		if _, err := GetCommitDelayTime(scriptHex); err != nil {
			return err
		}
	}
	return nil
}
