package domain

import "errors"

var (
	// ErrCatalogNotFound indicates the question catalog could not be loaded.
	ErrCatalogNotFound = errors.New("question catalog not found")
	// ErrQuestionNotFound indicates a submitted question ID is not in the catalog.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSignerUnconfigured is returned when no signer key is loaded; minting
	// is unavailable but request handling must keep working.
	ErrSignerUnconfigured = errors.New("signer key not configured")
	// ErrInvalidAddress indicates a wallet address that is not a valid hex address.
	ErrInvalidAddress = errors.New("invalid wallet address")
	// ErrNotPerfectScore indicates an authorization attempt without a perfect score.
	ErrNotPerfectScore = errors.New("mint authorization requires a perfect score")
	// ErrContractUnconfigured indicates on-chain reads were attempted without a
	// contract address.
	ErrContractUnconfigured = errors.New("badge contract address not configured")
)
