package eth

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"basegenius-quiz-service/internal/domain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
)

// badgeABI covers the read surface of the weekly badge contract. The mint
// entry point is listed for reference; this service never transacts.
const badgeABI = `[
	{"type":"function","name":"mintBadge","stateMutability":"nonpayable","inputs":[{"name":"weekNumber","type":"uint256"},{"name":"signature","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"hasClaimed","stateMutability":"view","inputs":[{"name":"user","type":"address"},{"name":"weekNumber","type":"uint256"}],"outputs":[{"type":"bool"}]},
	{"type":"function","name":"tokensOfOwner","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"type":"uint256[]"}]},
	{"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"type":"string"}]},
	{"type":"function","name":"getTokenWeek","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"signer","stateMutability":"view","inputs":[],"outputs":[{"type":"address"}]},
	{"type":"function","name":"verifySignature","stateMutability":"view","inputs":[{"name":"user","type":"address"},{"name":"weekNumber","type":"uint256"},{"name":"signature","type":"bytes"}],"outputs":[{"type":"bool"}]}
]`

// BadgeReader reads badge state from the chain. Calls are best-effort with no
// retry; callers surface failures upward. It sits outside the request path
// and is only used by CLI tooling and ad hoc checks.
type BadgeReader struct {
	client   *ethclient.Client
	contract *bind.BoundContract
}

// NewBadgeReader dials the RPC endpoint and binds the badge contract.
func NewBadgeReader(rpcURL, contractAddress string) (*BadgeReader, error) {
	if contractAddress == "" {
		return nil, domain.ErrContractUnconfigured
	}
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("%w: %q", domain.ErrContractUnconfigured, contractAddress)
	}
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %s: %w", rpcURL, err)
	}
	parsed, err := abi.JSON(strings.NewReader(badgeABI))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("parse badge abi: %w", err)
	}
	contract := bind.NewBoundContract(common.HexToAddress(contractAddress), parsed, client, nil, nil)
	return &BadgeReader{client: client, contract: contract}, nil
}

func (r *BadgeReader) Close() {
	r.client.Close()
}

// HasClaimed reports whether user already minted the badge for a week.
func (r *BadgeReader) HasClaimed(ctx context.Context, user common.Address, week uint64) (bool, error) {
	var out []interface{}
	err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "hasClaimed", user, new(big.Int).SetUint64(week))
	if err != nil {
		return false, fmt.Errorf("hasClaimed: %w", err)
	}
	return out[0].(bool), nil
}

// TokensOfOwner lists the badge token IDs owned by user.
func (r *BadgeReader) TokensOfOwner(ctx context.Context, user common.Address) ([]*big.Int, error) {
	var out []interface{}
	err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "tokensOfOwner", user)
	if err != nil {
		return nil, fmt.Errorf("tokensOfOwner: %w", err)
	}
	return out[0].([]*big.Int), nil
}

// TokenURI returns the metadata URI for a token.
func (r *BadgeReader) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	var out []interface{}
	err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "tokenURI", tokenID)
	if err != nil {
		return "", fmt.Errorf("tokenURI: %w", err)
	}
	return out[0].(string), nil
}

// TokenWeek returns the week number a token was minted for.
func (r *BadgeReader) TokenWeek(ctx context.Context, tokenID *big.Int) (uint64, error) {
	var out []interface{}
	err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getTokenWeek", tokenID)
	if err != nil {
		return 0, fmt.Errorf("getTokenWeek: %w", err)
	}
	return out[0].(*big.Int).Uint64(), nil
}

// ContractSigner returns the signer address the contract verifies against.
func (r *BadgeReader) ContractSigner(ctx context.Context) (common.Address, error) {
	var out []interface{}
	err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "signer")
	if err != nil {
		return common.Address{}, fmt.Errorf("signer: %w", err)
	}
	return out[0].(common.Address), nil
}

// VerifySignature asks the contract itself whether a signature authorizes
// (user, week). Debugging aid; the authoritative check runs at mint time.
func (r *BadgeReader) VerifySignature(ctx context.Context, user common.Address, week uint64, sigHex string) (bool, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return false, fmt.Errorf("decode signature: %w", err)
	}
	var out []interface{}
	err = r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "verifySignature", user, new(big.Int).SetUint64(week), sig)
	if err != nil {
		return false, fmt.Errorf("verifySignature: %w", err)
	}
	return out[0].(bool), nil
}
