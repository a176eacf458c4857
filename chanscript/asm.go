package chanscript

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/txscript"
)

// MaxSequenceValue is the largest value CHECKSEQUENCEVERIFY (encoded here
// as OP_NOP3, opcode 0xB2) is permitted to gate on: a 16-bit relative
// block count.
const MaxSequenceValue = 0x0000FFFF

// Word is one decoded Script opcode together with its optional immediate
// data. Word boundaries are deterministic given the leading opcode byte:
// opcodes 1..75 push that many immediate bytes, OP_PUSHDATA1/2/4 push a
// length-prefixed blob, and every other opcode carries no immediate data.
type Word struct {
	Opcode byte
	Data   []byte
}

// IsDataPush reports whether the word pushes data onto the stack (as
// opposed to an operator opcode with no immediate bytes).
func (w Word) IsDataPush() bool {
	return w.Data != nil
}

// IsPush reports whether the word pushes a value onto the stack at all,
// whether as immediate data or via one of the minimal small-integer
// opcodes (OP_0, OP_1NEGATE, OP_1..OP_16) CompileASM emits for in-range
// decimal tokens instead of a literal data push.
func (w Word) IsPush() bool {
	if w.IsDataPush() {
		return true
	}
	if w.Opcode == txscript.OP_0 || w.Opcode == txscript.OP_1NEGATE {
		return true
	}
	return w.Opcode >= txscript.OP_1 && w.Opcode <= txscript.OP_16
}

// DecodeWord decodes the single Script word starting at offset, returning
// the decoded word and the offset immediately following it.
func DecodeWord(script []byte, offset int) (Word, int, error) {
	if offset < 0 || offset >= len(script) {
		return Word{}, 0, newMalformedScriptError(
			"decode word: offset %d at or past end of %d-byte script",
			offset, len(script))
	}

	op := script[offset]
	switch {
	case op >= 1 && op <= 75:
		end := offset + 1 + int(op)
		if end > len(script) {
			return Word{}, 0, newMalformedScriptError(
				"decode word: truncated %d-byte push at offset %d", op, offset)
		}
		return Word{Opcode: op, Data: script[offset+1 : end]}, end, nil

	case op == txscript.OP_PUSHDATA1:
		if offset+2 > len(script) {
			return Word{}, 0, newMalformedScriptError(
				"decode word: truncated OP_PUSHDATA1 length at offset %d", offset)
		}
		n := int(script[offset+1])
		start := offset + 2
		end := start + n
		if end > len(script) {
			return Word{}, 0, newMalformedScriptError(
				"decode word: truncated OP_PUSHDATA1 data at offset %d", offset)
		}
		return Word{Opcode: op, Data: script[start:end]}, end, nil

	case op == txscript.OP_PUSHDATA2:
		if offset+3 > len(script) {
			return Word{}, 0, newMalformedScriptError(
				"decode word: truncated OP_PUSHDATA2 length at offset %d", offset)
		}
		n := int(binary.LittleEndian.Uint16(script[offset+1 : offset+3]))
		start := offset + 3
		end := start + n
		if end > len(script) {
			return Word{}, 0, newMalformedScriptError(
				"decode word: truncated OP_PUSHDATA2 data at offset %d", offset)
		}
		return Word{Opcode: op, Data: script[start:end]}, end, nil

	case op == txscript.OP_PUSHDATA4:
		if offset+5 > len(script) {
			return Word{}, 0, newMalformedScriptError(
				"decode word: truncated OP_PUSHDATA4 length at offset %d", offset)
		}
		n := int(binary.LittleEndian.Uint32(script[offset+1 : offset+5]))
		start := offset + 5
		end := start + n
		if end > len(script) {
			return Word{}, 0, newMalformedScriptError(
				"decode word: truncated OP_PUSHDATA4 data at offset %d", offset)
		}
		return Word{Opcode: op, Data: script[start:end]}, end, nil

	default:
		// OP_0, OP_1NEGATE, OP_1..OP_16, and every operator opcode carry
		// no immediate data.
		return Word{Opcode: op}, offset + 1, nil
	}
}

// GetWord decodes script sequentially from the start and returns the
// 0-indexed word at position index, along with its disassembly.
func GetWord(script []byte, index int) (Word, string, error) {
	if index < 0 {
		return Word{}, "", newOutOfRangeError(index)
	}

	offset := 0
	for i := 0; offset < len(script); i++ {
		start := offset
		word, next, err := DecodeWord(script, offset)
		if err != nil {
			return Word{}, "", err
		}
		if i == index {
			disasm, err := disassembleWord(script[start:next])
			if err != nil {
				return Word{}, "", err
			}
			return word, disasm, nil
		}
		offset = next
	}

	return Word{}, "", newOutOfRangeError(index)
}

// disassembleWord renders a single encoded word in the same textual form
// CompileASM accepts, using the real Script disassembler so the output
// matches exactly what the Bitcoin reference client would print.
func disassembleWord(wordBytes []byte) (string, error) {
	s, err := txscript.DisasmString(wordBytes)
	if err != nil {
		return "", newMalformedScriptError("disassemble word: %v", err)
	}
	return s, nil
}

// CompileASM parses a human-readable, whitespace-separated sequence of
// tokens into canonically encoded Script bytecode. Each token is either an
// opcode name (e.g. "OP_CHECKSIG"), a base-10 integer (pushed via minimal
// integer encoding, OP_0/OP_1..OP_16 where possible), or a hex literal
// (pushed as a minimal data push).
func CompileASM(asm string) ([]byte, error) {
	// Tracef, not Debugf: a scriptSig's ASM carries live signatures and
	// revealed secrets, so only the most verbose, rarely-enabled log level
	// should ever print it.
	log.Tracef("compiling asm: %s", asm)
	builder := txscript.NewScriptBuilder()

	for _, tok := range strings.Fields(asm) {
		upper := strings.ToUpper(tok)
		if strings.HasPrefix(upper, "OP_") {
			op, ok := txscript.OpcodeByName[upper]
			if !ok {
				return nil, newMalformedScriptError("compile asm: unknown opcode %q", tok)
			}
			builder.AddOp(op)
			continue
		}

		if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			builder.AddInt64(n)
			continue
		}

		data, err := hex.DecodeString(tok)
		if err != nil {
			return nil, newMalformedScriptError("compile asm: unrecognized token %q", tok)
		}
		builder.AddData(data)
	}

	script, err := builder.Script()
	if err != nil {
		return nil, newMalformedScriptError("compile asm: %v", err)
	}
	return script, nil
}

// ParseSequenceValue decodes a sequence-value word per the encoding
// CHECKSEQUENCEVERIFY consumes: OP_0 is 0, a direct push of 1..75 bytes is
// a little-endian integer, and OP_1..OP_16 is opcode-80. Any other
// encoding, or a decoded value outside [0, MaxSequenceValue], is rejected.
func ParseSequenceValue(w Word, disassembly string) (uint32, error) {
	var value int64 = -1

	switch {
	case w.Opcode == txscript.OP_0:
		value = 0
	case w.Opcode >= 1 && w.Opcode <= 75:
		if len(w.Data) <= 8 {
			value = leInt64(w.Data)
		}
	case w.Opcode > 80 && w.Opcode < 97:
		value = int64(w.Opcode) - 80
	}

	if value < 0 || value > MaxSequenceValue {
		return 0, newInvalidSequenceValueError(disassembly)
	}
	return uint32(value), nil
}

// leInt64 interprets data as an unsigned little-endian integer. It is only
// ever called on pushes of at most 8 bytes; an 8-byte push with its top bit
// set wraps to a negative result, which ParseSequenceValue rejects.
func leInt64(data []byte) int64 {
	var v int64
	for i, b := range data {
		v |= int64(b) << uint(8*i)
	}
	return v
}
