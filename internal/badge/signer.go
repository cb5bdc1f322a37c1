package badge

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"basegenius-quiz-service/internal/domain"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// MintDigest derives the message hash the badge contract recomputes on-chain:
// keccak256(abi.encodePacked(address, uint256 weekNumber)). The packed layout
// is the raw 20 address bytes followed by the week as a 32-byte big-endian
// word; this must stay byte-identical to the contract or recovery fails.
func MintDigest(user common.Address, week uint64) common.Hash {
	weekWord := math.U256Bytes(new(big.Int).SetUint64(week))
	return crypto.Keccak256Hash(user.Bytes(), weekWord)
}

// Signer holds the process-wide mint authorization key. It has exactly two
// states: unconfigured (nil key, every SignMint returns
// domain.ErrSignerUnconfigured) and ready. It is stateless across calls and
// safe for concurrent use.
type Signer struct {
	key *ecdsa.PrivateKey
}

// NewSigner parses a hex-encoded secp256k1 private key, with or without a 0x
// prefix. An empty key yields an unconfigured signer rather than an error so
// the service can run with minting disabled.
func NewSigner(hexKey string) (*Signer, error) {
	if hexKey == "" {
		return &Signer{}, nil
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse signer key: %w", err)
	}
	return &Signer{key: key}, nil
}

// Ready reports whether a signing key is loaded.
func (s *Signer) Ready() bool {
	return s != nil && s.key != nil
}

// Address returns the signer's public address, which must match the signer
// registered in the badge contract.
func (s *Signer) Address() (common.Address, error) {
	if !s.Ready() {
		return common.Address{}, domain.ErrSignerUnconfigured
	}
	return crypto.PubkeyToAddress(s.key.PublicKey), nil
}

// SignMint produces the mint authorization signature for (user, week).
//
// The digest is wrapped with the EIP-191 personal-message prefix
// ("\x19Ethereum Signed Message:\n32" + digest) before signing because the
// contract recovers through toEthSignedMessageHash; skipping the wrap breaks
// verification. V is normalized to 27/28 as Solidity's ecrecover expects.
// Returns a 0x-prefixed 65-byte signature.
func (s *Signer) SignMint(user common.Address, week uint64) (string, error) {
	if !s.Ready() {
		return "", domain.ErrSignerUnconfigured
	}
	digest := MintDigest(user, week)
	sig, err := crypto.Sign(accounts.TextHash(digest.Bytes()), s.key)
	if err != nil {
		return "", fmt.Errorf("sign mint digest: %w", err)
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}

// RecoverMinter recovers the address that signed a mint authorization for
// (user, week). Mirrors the contract's verification path; used by tests and
// the signer CLI subcommand.
func RecoverMinter(user common.Address, week uint64, sigHex string) (common.Address, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return common.Address{}, fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	cp := make([]byte, len(sig))
	copy(cp, sig)
	if cp[64] >= 27 {
		cp[64] -= 27
	}
	digest := MintDigest(user, week)
	pub, err := crypto.SigToPub(accounts.TextHash(digest.Bytes()), cp)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover signer: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// GenerateKey creates a fresh signer wallet. The key is only ever used for
// signing, so the account needs no funds.
func GenerateKey() (address, privateKey string, err error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return "", "", fmt.Errorf("generate key: %w", err)
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(crypto.FromECDSA(key)), nil
}
