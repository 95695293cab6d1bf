package chain

import (
	"github.com/holiman/uint256"

	"ledgerchain/crypto"
	"ledgerchain/kv"
)

// ValueKind tags the closed set of kinds a VM can leave on its result
// stack (spec §9 "re-architect as a tagged-variant result type").
type ValueKind uint8

const (
	ValueInteger ValueKind = iota
	ValueBytes
	ValueAddress
	ValueBoolean
	ValueArray
)

// Value is the contract-invocation result type. Exactly one of the
// fields matching Kind is meaningful; callers should switch on Kind
// rather than guessing which field is populated.
type Value struct {
	Kind    ValueKind
	Integer *uint256.Int
	Bytes   []byte
	Address crypto.Address
	Boolean bool
	Array   []Value
}

// IntegerValue, BytesValue, AddressValue, BooleanValue and ArrayValue
// are constructors for the corresponding Value kind.
func IntegerValue(v *uint256.Int) Value    { return Value{Kind: ValueInteger, Integer: v} }
func BytesValue(v []byte) Value            { return Value{Kind: ValueBytes, Bytes: v} }
func AddressValue(v crypto.Address) Value  { return Value{Kind: ValueAddress, Address: v} }
func BooleanValue(v bool) Value            { return Value{Kind: ValueBoolean, Boolean: v} }
func ArrayValue(v []Value) Value           { return Value{Kind: ValueArray, Array: v} }

// Script is an opaque call script produced by a ScriptBuilder. The core
// never inspects its contents; it only hands it to a VM.
type Script interface{}

// ScriptBuilder builds a call-script targeting a method on a bound
// contract (spec §6).
type ScriptBuilder interface {
	BuildCall(target crypto.Address, method string, args []Value) (Script, error)
}

// ResultStack is the VM's result-stack contract: a single value left on
// top after a script runs to completion.
type ResultStack interface {
	Pop() (Value, bool)
}

// VM executes a script against a chain's state through a change-set,
// leaving its result on a ResultStack (spec §6).
type VM interface {
	Execute(c *Chain, cs *kv.ChangeSet, script Script) (ResultStack, error)
}

// InvokeContract implements spec §4.7's contract-invocation path: it
// builds a call-script targeting c's bound contract, runs it through
// the VM against a throwaway change-set, and returns the top-of-stack
// result. The change-set is never applied — mutations a script makes
// are discarded once the call returns.
func (c *Chain) InvokeContract(method string, args []Value) (Value, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.vm == nil || c.script == nil {
		return Value{}, ErrArgument("chain: no VM/script builder configured")
	}
	script, err := c.script.BuildCall(c.contract, method, args)
	if err != nil {
		return Value{}, err
	}

	cs := kv.NewChangeSet(c.store)
	stack, err := c.vm.Execute(c, cs, script)
	if err != nil {
		return Value{}, err
	}

	result, ok := stack.Pop()
	if !ok {
		return Value{}, ErrArgument("chain: contract invocation produced no result")
	}
	return result, nil
}
