package token

// ArgumentError is the §7 "Argument error" kind: null where required,
// an unknown chain, or any other caller mistake distinct from an
// invariant violation.
type ArgumentError string

func (e ArgumentError) Error() string { return string(e) }

// ErrArgument constructs an ArgumentError.
func ErrArgument(msg string) error { return ArgumentError(msg) }

// InvariantError is the §7 "Invariant violation" kind: a hard failure
// that indicates a programming bug or corrupted input, never
// auto-repaired.
type InvariantError string

func (e InvariantError) Error() string { return string(e) }

var (
	// ErrCappedNonFungible: a token cannot be both capped and non-fungible.
	ErrCappedNonFungible = ArgumentError("token: capped flag requires fungible flag")

	// ErrNilAmount: an amount argument was nil where a value was required.
	ErrNilAmount = ArgumentError("token: amount must not be nil")

	// ErrBalanceOverflow: adding to a balance would overflow uint256.
	ErrBalanceOverflow = InvariantError("token: balance overflow")
	// ErrBalanceUnderflow: subtracting from a balance would go negative.
	ErrBalanceUnderflow = InvariantError("token: balance underflow")

	// ErrAlreadyOwned: give() targeted an id some address already owns.
	ErrAlreadyOwned = InvariantError("token: nft already owned")
	// ErrNotOwned: take() targeted an id the address does not own.
	ErrNotOwned = InvariantError("token: nft not owned by address")

	// ErrSupplyAlreadyInitialized: init/borrow called on an existing sheet.
	ErrSupplyAlreadyInitialized = InvariantError("token: supply sheet already initialized")
	// ErrSupplyNotInitialized: mint/burn called before init/borrow.
	ErrSupplyNotInitialized = InvariantError("token: supply sheet not initialized")
	// ErrSupplyCapExceeded: mint would push circulating past local_balance.
	ErrSupplyCapExceeded = InvariantError("token: mint exceeds local balance cap")
	// ErrSupplyInsufficientHeadroom: borrow_from_parent would push the
	// parent's local_balance below its own circulating supply.
	ErrSupplyInsufficientHeadroom = InvariantError("token: parent has insufficient headroom to lend")
	// ErrSupplyBurnExceedsCirculating: burn would take circulating negative.
	ErrSupplyBurnExceedsCirculating = InvariantError("token: burn exceeds circulating supply")
)
