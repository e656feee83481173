// Package tradeerr holds the sentinel errors of the marketplace
// transaction rules. Handlers wrap them with weberr so every rule
// violation surfaces as a typed JSON response.
package tradeerr

import "errors"

var (
	// ErrSelfDealing rejects an actor who would be both counterparties.
	ErrSelfDealing = errors.New("you cannot trade on your own item")

	// ErrNotForSale rejects a trade on an item that is not listed.
	ErrNotForSale = errors.New("this item is not for sale")

	// ErrInvalidAmount rejects a non-positive monetary input.
	ErrInvalidAmount = errors.New("amount must be greater than 0")

	// ErrBidTooLow rejects a bid that does not beat the current price.
	ErrBidTooLow = errors.New("bid must be greater than the current price")

	// ErrAlreadyTerminal rejects an operation on a finished auction.
	ErrAlreadyTerminal = errors.New("this auction has already ended")

	// ErrAlreadyWinning rejects the standing highest bidder raising
	// against themselves.
	ErrAlreadyWinning = errors.New("you already hold the highest bid")
)
