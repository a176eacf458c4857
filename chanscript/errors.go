package chanscript

import (
	"github.com/go-errors/errors"
)

// InvalidScriptError is returned when an untrusted candidate script does
// not match the reference template it was validated against.
type InvalidScriptError struct {
	Err       *errors.Error
	ScriptHex string
}

func (e *InvalidScriptError) Error() string { return e.Err.Error() }

func newInvalidScriptError(scriptHex string) *InvalidScriptError {
	return &InvalidScriptError{
		Err:       errors.Errorf("invalid script: '%s'", scriptHex),
		ScriptHex: scriptHex,
	}
}

// InvalidSequenceValueError is returned when a decoded sequence-value word
// falls outside [0, 0xFFFF].
type InvalidSequenceValueError struct {
	Err         *errors.Error
	Disassembly string
}

func (e *InvalidSequenceValueError) Error() string { return e.Err.Error() }

func newInvalidSequenceValueError(disassembly string) *InvalidSequenceValueError {
	return &InvalidSequenceValueError{
		Err:         errors.Errorf("invalid sequence value: %s", disassembly),
		Disassembly: disassembly,
	}
}

// InvalidPayerSignatureError is returned by the finalize-commit path when
// the payer's embedded signature is malformed or does not verify.
type InvalidPayerSignatureError struct {
	Err    *errors.Error
	Reason string
}

func (e *InvalidPayerSignatureError) Error() string { return e.Err.Error() }

func newInvalidPayerSignatureError(reason string) *InvalidPayerSignatureError {
	return &InvalidPayerSignatureError{
		Err:    errors.Errorf("invalid payer signature: %s", reason),
		Reason: reason,
	}
}

// Well-known reasons carried by InvalidPayerSignatureError, matching the
// failure modes the finalize-commit verification step distinguishes.
const (
	ReasonNotDER          = "not in DER format"
	ReasonInvalidRSValues = "invalid r s values"
	ReasonWrongHashType   = "signed with unexpected sighash type"
)

// MalformedScriptError is returned when bytecode is truncated mid-word, or
// an opcode's declared push length runs past the end of the script.
type MalformedScriptError struct {
	Err *errors.Error
}

func (e *MalformedScriptError) Error() string { return e.Err.Error() }

func newMalformedScriptError(format string, args ...interface{}) *MalformedScriptError {
	return &MalformedScriptError{Err: errors.Errorf(format, args...)}
}

// OutOfRangeError is returned when a requested word index is beyond the
// end of the script.
type OutOfRangeError struct {
	Err   *errors.Error
	Index int
}

func (e *OutOfRangeError) Error() string { return e.Err.Error() }

func newOutOfRangeError(index int) *OutOfRangeError {
	return &OutOfRangeError{
		Err:   errors.Errorf("word index %d out of range", index),
		Index: index,
	}
}

// SecretMismatchError is returned by a recovery signing path when the
// caller-supplied secret does not hash to the value embedded in the
// script being spent.
type SecretMismatchError struct {
	Err         *errors.Error
	WantHash160 string
	GotHash160  string
}

func (e *SecretMismatchError) Error() string { return e.Err.Error() }

func newSecretMismatchError(wantHash160, gotHash160 string) *SecretMismatchError {
	return &SecretMismatchError{
		Err:         errors.Errorf("secret mismatch: want hash160 %s, got %s", wantHash160, gotHash160),
		WantHash160: wantHash160,
		GotHash160:  gotHash160,
	}
}

// BadSignatureError reports a generic signing failure surfaced by the
// underlying signature engine.
type BadSignatureError struct {
	Err *errors.Error
}

func (e *BadSignatureError) Error() string { return e.Err.Error() }

func newBadSignatureError(format string, args ...interface{}) *BadSignatureError {
	return &BadSignatureError{Err: errors.Errorf(format, args...)}
}

// IsInvalidScript reports whether err is an InvalidScriptError.
func IsInvalidScript(err error) bool {
	_, ok := err.(*InvalidScriptError)
	return ok
}

// IsInvalidSequenceValue reports whether err is an
// InvalidSequenceValueError.
func IsInvalidSequenceValue(err error) bool {
	_, ok := err.(*InvalidSequenceValueError)
	return ok
}

// IsInvalidPayerSignature reports whether err is an
// InvalidPayerSignatureError, optionally matching a specific reason.
func IsInvalidPayerSignature(err error, reason string) bool {
	ipe, ok := err.(*InvalidPayerSignatureError)
	if !ok {
		return false
	}
	return reason == "" || ipe.Reason == reason
}

// IsSecretMismatch reports whether err is a SecretMismatchError.
func IsSecretMismatch(err error) bool {
	_, ok := err.(*SecretMismatchError)
	return ok
}

// IsMalformedScript reports whether err is a MalformedScriptError.
func IsMalformedScript(err error) bool {
	_, ok := err.(*MalformedScriptError)
	return ok
}

// IsOutOfRange reports whether err is an OutOfRangeError.
func IsOutOfRange(err error) bool {
	_, ok := err.(*OutOfRangeError)
	return ok
}

// IsBadSignature reports whether err is a BadSignatureError.
func IsBadSignature(err error) bool {
	_, ok := err.(*BadSignatureError)
	return ok
}
