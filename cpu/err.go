package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// ErrInvariantViolation matches every ErrInvariant.
	ErrInvariantViolation = errors.New(f("invariant violation"))

	// Cpu invariant kinds
	ErrOpcodeInvalid    = errors.New(f("invalid opcode"))
	ErrAluInvalid       = errors.New(f("unsupported alu operation"))
	ErrRegisterInvalid  = errors.New(f("invalid register"))
	ErrOperandA         = errors.New(f("operand a out of range"))
	ErrOperandB         = errors.New(f("operand b out of range"))
	ErrOperandStack     = errors.New(f("instruction operands in stack"))
	ErrStackRange       = errors.New(f("stack pointer out of range"))
	ErrStackOverlap     = errors.New(f("stack cannot overlap executing code"))
	ErrPcRange          = errors.New(f("invalid program counter"))
	ErrInterruptInvalid = errors.New(f("invalid interrupt"))
	ErrInterruptIdle    = errors.New(f("return from interrupt while idle"))
	ErrImageTooLarge    = errors.New(f("program too large to fit in memory"))

	// Recoverable faults
	ErrDivideByZero = errors.New(f("division by zero"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrDirectiveSyntax    = errors.New(f("directive syntax"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOrgBackwards       = errors.New(f(".org before current address"))
	ErrOperandCount       = errors.New(f("wrong number of operands"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
)

// ErrInvariant is a fatal violation of an LS-8 machine invariant.
type ErrInvariant struct {
	Err   error // One of the invariant kinds.
	Value int   // Offending value.
	Pc    int   // Program counter at the time of the violation.
}

func (err *ErrInvariant) Error() string {
	if err.Err == ErrOpcodeInvalid {
		return f("%v: %08b at %d", err.Err, err.Value, err.Pc)
	}
	return f("%v: %d at %d", err.Err, err.Value, err.Pc)
}

func (err *ErrInvariant) Unwrap() []error {
	return []error{ErrInvariantViolation, err.Err}
}

// ErrAluFault is a recoverable ALU fault. It halts the CPU but is not
// returned from Tick or Run.
type ErrAluFault struct {
	Op AluOp
	Pc int
}

func (err *ErrAluFault) Error() string {
	return f("ALU ERROR: %v by 0 at %d", err.Op, err.Pc)
}

func (err *ErrAluFault) Unwrap() error {
	return ErrDivideByZero
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

func (err ErrParseRegister) Unwrap() error {
	return ErrRegisterInvalid
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
