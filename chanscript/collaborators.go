package chanscript

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// TxLoader resolves the previous output an input spends, so the signer can
// compute the legacy sighash and know the redeemed value. Callers usually
// back this with a UTXO index or a chain client; chanscript treats it as
// read-only.
type TxLoader interface {
	// PrevOutput returns the referenced previous output.
	PrevOutput(op wire.OutPoint) (*wire.TxOut, error)
}

// KeyStore resolves the private key paired with a given public key.
// chanscript uses the returned key only to produce the signature for the
// spend being built and does not store it.
type KeyStore interface {
	// PrivKeyForPubKey returns the private key whose public key matches
	// pubKeyHex, hex-encoded SEC-compressed or uncompressed.
	PrivKeyForPubKey(pubKeyHex string) (*btcec.PrivateKey, error)
}

// SighashFn computes the legacy (pre-segwit) signature hash of tx's
// inputIndex-th input against subScript, the same calculation
// txscript.CalcSignatureHash performs. It is exposed as a collaborator
// interface, rather than called directly, so tests can substitute a fixed
// digest without constructing a full transaction.
type SighashFn func(subScript []byte, hashType txscript.SigHashType, tx *wire.MsgTx, inputIndex int) ([]byte, error)
