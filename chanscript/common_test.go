package chanscript

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/wire"
)

// mockKeyStore is a KeyStore backed by an in-memory map of private keys,
// matched to a lookup request by their hex-encoded compressed public key.
type mockKeyStore struct {
	privkeys map[string]*btcec.PrivateKey
}

func newMockKeyStore(keys ...*btcec.PrivateKey) *mockKeyStore {
	m := &mockKeyStore{privkeys: make(map[string]*btcec.PrivateKey)}
	for _, k := range keys {
		pubHex := hex.EncodeToString(k.PubKey().SerializeCompressed())
		m.privkeys[pubHex] = k
	}
	return m
}

func (m *mockKeyStore) PrivKeyForPubKey(pubKeyHex string) (*btcec.PrivateKey, error) {
	priv, ok := m.privkeys[pubKeyHex]
	if !ok {
		return nil, newBadSignatureError("mock key store: no key for %s", pubKeyHex)
	}
	return priv, nil
}

// mockTxLoader is a TxLoader backed by an in-memory map of previous
// outputs, keyed by outpoint.
type mockTxLoader struct {
	outputs map[wire.OutPoint]*wire.TxOut
}

func newMockTxLoader() *mockTxLoader {
	return &mockTxLoader{outputs: make(map[wire.OutPoint]*wire.TxOut)}
}

func (m *mockTxLoader) add(op wire.OutPoint, out *wire.TxOut) {
	m.outputs[op] = out
}

func (m *mockTxLoader) PrevOutput(op wire.OutPoint) (*wire.TxOut, error) {
	out, ok := m.outputs[op]
	if !ok {
		return nil, newBadSignatureError("mock tx loader: no output for %s", op)
	}
	return out, nil
}
