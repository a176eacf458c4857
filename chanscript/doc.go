// Package chanscript implements the script layer of a unidirectional
// Bitcoin micropayment channel: compiling, recognizing, and spending the
// two custom scripts that back such a channel.
//
// A deposit script locks the payer's funds into the channel and offers
// three spend paths: cooperative progress via 2-of-2 multisig, an early
// unilateral close given the spend secret, and a timeout refund to the
// payer. A commit script records an off-chain settlement state and offers
// two spend paths: payout to the payee after a relative delay, or
// revocation by the payer given the revoke secret.
//
// The package does not select UTXOs, estimate fees, serialize whole
// transactions from scratch, or decide when to deposit, commit, or
// revoke — those are the caller's concern. chanscript only compiles and
// recognizes the two script templates and produces the scriptSig for
// each of the seven legal spend paths.
package chanscript
