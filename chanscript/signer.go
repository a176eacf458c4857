package chanscript

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// placeholderSigLen is the byte length of the dummy payee signature
// SignCreatedCommit embeds in place of the not-yet-available second
// signature. A maximal DER-encoded secp256k1 signature plus its sighash
// byte is at most 72 bytes; using that fixed length lets a caller
// estimate the finalized commit transaction's size (and so its fee)
// before the payee has co-signed. It does not, and cannot, stabilize the
// transaction's legacy txid, since a legacy txid commits to scriptSig
// bytes: SignFinalizeCommit always produces a different txid once the
// real payee signature replaces this placeholder.
const placeholderSigLen = 72

// DefaultSighashFn computes the legacy signature hash using the real
// Script engine's implementation, the same one a full node enforces
// against.
func DefaultSighashFn(subScript []byte, hashType txscript.SigHashType, tx *wire.MsgTx, inputIndex int) ([]byte, error) {
	return txscript.CalcSignatureHash(subScript, hashType, tx, inputIndex)
}

func signLegacy(priv *btcec.PrivateKey, subScript []byte, hashType txscript.SigHashType, tx *wire.MsgTx, inputIndex int, sighash SighashFn) ([]byte, error) {
	digest, err := sighash(subScript, hashType, tx, inputIndex)
	if err != nil {
		return nil, newBadSignatureError("compute sighash: %v", err)
	}
	sig := ecdsa.Sign(priv, digest)
	return append(sig.Serialize(), byte(hashType)), nil
}

func verifyLegacy(sigWithHashType []byte, pubKey *btcec.PublicKey, subScript []byte, tx *wire.MsgTx, inputIndex int, expectedHashType txscript.SigHashType, sighash SighashFn) error {
	if len(sigWithHashType) < 2 {
		return newInvalidPayerSignatureError(ReasonNotDER)
	}
	hashType := txscript.SigHashType(sigWithHashType[len(sigWithHashType)-1])
	if hashType != expectedHashType {
		return newInvalidPayerSignatureError(ReasonWrongHashType)
	}
	rawSig := sigWithHashType[:len(sigWithHashType)-1]

	sig, err := ecdsa.ParseDERSignature(rawSig)
	if err != nil {
		return newInvalidPayerSignatureError(ReasonNotDER)
	}

	digest, err := sighash(subScript, hashType, tx, inputIndex)
	if err != nil {
		return newBadSignatureError("compute sighash: %v", err)
	}
	if !sig.Verify(digest, pubKey) {
		return newInvalidPayerSignatureError(ReasonInvalidRSValues)
	}
	return nil
}

// SignDeposit signs a plain wallet input funding a deposit output. Unlike
// the other six spend paths, the input being spent here is an ordinary
// pay-to-pubkey-hash output, not a deposit or commit script, so the
// scriptSig is the classic {sig} {pubkey} pair.
func SignDeposit(tx *wire.MsgTx, inputIndex int, loader TxLoader, keys KeyStore, pubKeyHex string, hashType txscript.SigHashType, sighash SighashFn) (string, error) {
	prevOut, err := loader.PrevOutput(tx.TxIn[inputIndex].PreviousOutPoint)
	if err != nil {
		return "", newBadSignatureError("load previous output: %v", err)
	}

	priv, err := keys.PrivKeyForPubKey(pubKeyHex)
	if err != nil {
		return "", newBadSignatureError("load private key: %v", err)
	}

	sigBytes, err := signLegacy(priv, prevOut.PkScript, hashType, tx, inputIndex, sighash)
	if err != nil {
		return "", err
	}

	asm := hex.EncodeToString(sigBytes) + " " + pubKeyHex
	script, err := CompileASM(asm)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

// SignCreatedCommit spends a deposit script's cooperative 2-of-2 branch
// with the payer's half of the signature, embedding a placeholder in
// place of the payee's signature. Call SignFinalizeCommit once the payee
// has produced its own signature.
func SignCreatedCommit(depositScriptHex string, tx *wire.MsgTx, inputIndex int, keys KeyStore, payerPubkeyHex string, hashType txscript.SigHashType, sighash SighashFn) (string, error) {
	if err := recognizeDeposit(depositScriptHex, true); err != nil {
		return "", err
	}

	depositScript, err := decodeScriptHex(depositScriptHex)
	if err != nil {
		return "", err
	}

	priv, err := keys.PrivKeyForPubKey(payerPubkeyHex)
	if err != nil {
		return "", newBadSignatureError("load private key: %v", err)
	}

	payerSig, err := signLegacy(priv, depositScript, hashType, tx, inputIndex, sighash)
	if err != nil {
		return "", err
	}

	placeholder := make([]byte, placeholderSigLen)
	asm := "OP_0 " + hex.EncodeToString(payerSig) + " " + hex.EncodeToString(placeholder) + " OP_1 " + depositScriptHex
	script, err := CompileASM(asm)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

// commitScriptSigPayerSigWord is the word index of the payer's embedded
// signature within a COMMIT_SCRIPTSIG ("OP_0 {payer_sig} {payee_sig} OP_1").
const commitScriptSigPayerSigWord = 1

// SignFinalizeCommit replaces the placeholder payee signature a prior
// SignCreatedCommit call embedded with a real one, after confirming
// createdScriptSigHex has the create-commit scriptSig shape and that the
// payer's signature is well-formed DER and verifies against payerPubkeyHex.
func SignFinalizeCommit(depositScriptHex, createdScriptSigHex string, tx *wire.MsgTx, inputIndex int, keys KeyStore, payerPubkeyHex, payeePubkeyHex string, hashType txscript.SigHashType, sighash SighashFn) (string, error) {
	if err := recognizeDeposit(depositScriptHex, true); err != nil {
		return "", err
	}

	depositScript, err := decodeScriptHex(depositScriptHex)
	if err != nil {
		return "", err
	}

	refScriptSig, err := CompileASM("OP_0 " + sentinel + " " + sentinel + " OP_1 " + depositScriptHex)
	if err != nil {
		return "", err
	}
	if err := ValidateAgainstReference(hex.EncodeToString(refScriptSig), createdScriptSigHex); err != nil {
		return "", err
	}

	createdScriptSig, err := decodeScriptHex(createdScriptSigHex)
	if err != nil {
		return "", err
	}
	payerSigWord, _, err := GetWord(createdScriptSig, commitScriptSigPayerSigWord)
	if err != nil {
		return "", err
	}

	payerPubKeyBytes, err := hex.DecodeString(payerPubkeyHex)
	if err != nil {
		return "", newMalformedScriptError("finalize commit: bad payer pubkey hex: %v", err)
	}
	payerPubKey, err := btcec.ParsePubKey(payerPubKeyBytes)
	if err != nil {
		return "", newInvalidPayerSignatureError(ReasonNotDER)
	}

	if err := verifyLegacy(payerSigWord.Data, payerPubKey, depositScript, tx, inputIndex, hashType, sighash); err != nil {
		return "", err
	}

	priv, err := keys.PrivKeyForPubKey(payeePubkeyHex)
	if err != nil {
		return "", newBadSignatureError("load private key: %v", err)
	}
	payeeSig, err := signLegacy(priv, depositScript, hashType, tx, inputIndex, sighash)
	if err != nil {
		return "", err
	}

	asm := "OP_0 " + hex.EncodeToString(payerSigWord.Data) + " " + hex.EncodeToString(payeeSig) + " OP_1 " + depositScriptHex
	script, err := CompileASM(asm)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

// SignChangeRecover spends a deposit script's early-close branch: the
// payer reveals spendSecret and signs, recovering the deposit before
// expireTime without the payee's cooperation. It fails if spendSecret's
// hash160 does not match the hash embedded in depositScriptHex.
func SignChangeRecover(depositScriptHex string, tx *wire.MsgTx, inputIndex int, keys KeyStore, payerPubkeyHex string, spendSecret []byte, hashType txscript.SigHashType, sighash SighashFn) (string, error) {
	if err := recognizeDeposit(depositScriptHex, true); err != nil {
		return "", err
	}
	if err := checkSecretHash(depositScriptHex, GetDepositSpendSecretHash, spendSecret); err != nil {
		return "", err
	}

	depositScript, err := decodeScriptHex(depositScriptHex)
	if err != nil {
		return "", err
	}
	priv, err := keys.PrivKeyForPubKey(payerPubkeyHex)
	if err != nil {
		return "", newBadSignatureError("load private key: %v", err)
	}
	sig, err := signLegacy(priv, depositScript, hashType, tx, inputIndex, sighash)
	if err != nil {
		return "", err
	}

	asm := hex.EncodeToString(sig) + " " + hex.EncodeToString(spendSecret) + " OP_1 OP_0 " + depositScriptHex
	script, err := CompileASM(asm)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

// SignExpireRecover spends a deposit script's timeout branch: the payer
// recovers the deposit unilaterally once expireTime has passed.
func SignExpireRecover(depositScriptHex string, tx *wire.MsgTx, inputIndex int, keys KeyStore, payerPubkeyHex string, hashType txscript.SigHashType, sighash SighashFn) (string, error) {
	if err := recognizeDeposit(depositScriptHex, true); err != nil {
		return "", err
	}

	depositScript, err := decodeScriptHex(depositScriptHex)
	if err != nil {
		return "", err
	}
	priv, err := keys.PrivKeyForPubKey(payerPubkeyHex)
	if err != nil {
		return "", newBadSignatureError("load private key: %v", err)
	}
	sig, err := signLegacy(priv, depositScript, hashType, tx, inputIndex, sighash)
	if err != nil {
		return "", err
	}

	asm := hex.EncodeToString(sig) + " OP_0 OP_0 " + depositScriptHex
	script, err := CompileASM(asm)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

// SignPayoutRecover spends a commit script's payout branch: the payee
// reveals spendSecret and signs, claiming the settled balance once
// delayTime has passed.
func SignPayoutRecover(commitScriptHex string, tx *wire.MsgTx, inputIndex int, keys KeyStore, payeePubkeyHex string, spendSecret []byte, hashType txscript.SigHashType, sighash SighashFn) (string, error) {
	if err := recognizeCommit(commitScriptHex, true); err != nil {
		return "", err
	}
	if err := checkSecretHash(commitScriptHex, GetCommitSpendSecretHash, spendSecret); err != nil {
		return "", err
	}

	commitScript, err := decodeScriptHex(commitScriptHex)
	if err != nil {
		return "", err
	}
	priv, err := keys.PrivKeyForPubKey(payeePubkeyHex)
	if err != nil {
		return "", newBadSignatureError("load private key: %v", err)
	}
	sig, err := signLegacy(priv, commitScript, hashType, tx, inputIndex, sighash)
	if err != nil {
		return "", err
	}

	asm := hex.EncodeToString(sig) + " " + hex.EncodeToString(spendSecret) + " OP_1 " + commitScriptHex
	script, err := CompileASM(asm)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

// SignRevokeRecover spends a commit script's revoke branch: the payer
// reveals revokeSecret and signs, invalidating the settlement the commit
// script recorded.
func SignRevokeRecover(commitScriptHex string, tx *wire.MsgTx, inputIndex int, keys KeyStore, payerPubkeyHex string, revokeSecret []byte, hashType txscript.SigHashType, sighash SighashFn) (string, error) {
	if err := recognizeCommit(commitScriptHex, true); err != nil {
		return "", err
	}
	if err := checkSecretHash(commitScriptHex, GetCommitRevokeSecretHash, revokeSecret); err != nil {
		return "", err
	}

	commitScript, err := decodeScriptHex(commitScriptHex)
	if err != nil {
		return "", err
	}
	priv, err := keys.PrivKeyForPubKey(payerPubkeyHex)
	if err != nil {
		return "", newBadSignatureError("load private key: %v", err)
	}
	sig, err := signLegacy(priv, commitScript, hashType, tx, inputIndex, sighash)
	if err != nil {
		return "", err
	}

	asm := hex.EncodeToString(sig) + " " + hex.EncodeToString(revokeSecret) + " OP_0 " + commitScriptHex
	script, err := CompileASM(asm)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(script), nil
}

// checkSecretHash confirms hash160(secret) matches the hash getField
// reads out of scriptHex, before a recovery path signs anything.
func checkSecretHash(scriptHex string, getField func(string) (string, error), secret []byte) error {
	wantHex, err := getField(scriptHex)
	if err != nil {
		return err
	}
	gotHex := hex.EncodeToString(btcutil.Hash160(secret))
	if gotHex != wantHex {
		return newSecretMismatchError(wantHex, gotHex)
	}
	return nil
}
