package il

// Vararg describes the arity convention of an IL-level function, mirroring
// the three states the Lua 5.x/Luau bytecode formats distinguish between a
// fixed-arity function, one that is itself variadic, and one that merely
// needs its argument count at runtime.
type Vararg int

const (
	HasArg Vararg = iota
	IsVararg
	NeedsArg
)

func (v Vararg) String() string {
	switch v {
	case HasArg:
		return "hasarg"
	case IsVararg:
		return "vararg"
	case NeedsArg:
		return "needsarg"
	default:
		return "unknown"
	}
}

// Function is a single function prototype in LUNIR's intermediate
// language: its constant pool, raw opcode bytes (owned by the format
// adapter that produced them — LUNIR's core never interprets them
// directly), and the metadata the lifter and CIR need to process its body.
type Function struct {
	Constants []Constant
	Code      []byte

	IsVariadic Vararg

	LineInfo []uint32
	Name     string

	UpvalueCount  uint8
	ParamCount    uint8
	MaxStackSize  uint8
}
