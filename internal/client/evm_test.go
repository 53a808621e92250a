package client

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
	"github.com/AlexZinkM/auto-respawn/internal/model"
)

var testChainID = big.NewInt(8700)

type nodeError struct{ msg string }

func (e nodeError) Error() string  { return e.msg }
func (e nodeError) ErrorCode() int { return 3 }

type fakeBackend struct {
	callOut []byte
	callErr error
	lastTo  *common.Address

	balance *big.Int
	sendErr error
	sent    []*types.Transaction

	status    uint64
	noReceipt bool

	chainIDErrs  []error
	chainIDCalls int
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	f.chainIDCalls++
	if len(f.chainIDErrs) > 0 {
		err := f.chainIDErrs[0]
		f.chainIDErrs = f.chainIDErrs[1:]
		return nil, err
	}
	return testChainID, nil
}

func (f *fakeBackend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.lastTo = call.To
	return f.callOut, f.callErr
}

func (f *fakeBackend) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) { return 3, nil }

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) { return big.NewInt(1e9), nil }

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) { return 50000, nil }

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	if f.noReceipt {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{
		Status:      f.status,
		TxHash:      hash,
		BlockHash:   common.HexToHash("0xb10c"),
		BlockNumber: big.NewInt(9),
		GasUsed:     21000,
	}, nil
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) { return nil, nil }

var testContract = common.HexToAddress(DefaultMemoryChainAddress)

func newTestClient(t *testing.T, backend *fakeBackend) *EvmClient {
	t.Helper()
	c, err := NewEvmClient(backend, testContract)
	if err != nil {
		t.Fatalf("NewEvmClient: %v", err)
	}
	return c
}

func TestLastMemoryHashOutcomes(t *testing.T) {
	owner := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	var stored [32]byte
	stored[0], stored[31] = 0xaa, 0x55

	tests := []struct {
		name    string
		backend *fakeBackend
		status  model.ReadStatus
	}{
		{"value", &fakeBackend{callOut: stored[:]}, model.ReadOK},
		{"no contract code", &fakeBackend{callOut: []byte{}}, model.ReadUndecodable},
		{"reverted", &fakeBackend{callErr: nodeError{"execution reverted"}}, model.ReadUndecodable},
		{"unreachable", &fakeBackend{callErr: errors.New("dial tcp: connection refused")}, model.ReadTransportError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestClient(t, tt.backend).LastMemoryHash(context.Background(), owner)
			if res.Status != tt.status {
				t.Fatalf("status = %s, want %s (err %v)", res.Status, tt.status, res.Err)
			}
			if tt.status == model.ReadOK && res.Value != stored {
				t.Fatalf("value = %x", res.Value)
			}
			if tt.status != model.ReadOK && res.Err == nil {
				t.Fatalf("non-OK results must carry the cause")
			}
			if tt.backend.lastTo == nil || *tt.backend.lastTo != testContract {
				t.Fatalf("call not addressed to the contract")
			}
		})
	}
}

func TestSetLastMemoryHash(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	backend := &fakeBackend{status: types.ReceiptStatusSuccessful}
	c := newTestClient(t, backend)

	var hash [32]byte
	hash[5] = 1
	receipt, err := c.SetLastMemoryHash(context.Background(), key, hash)
	if err != nil {
		t.Fatalf("SetLastMemoryHash: %v", err)
	}
	if receipt.Status != 1 || receipt.BlockNumber != 9 || receipt.BlockHash != common.HexToHash("0xb10c").Hex() {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if len(backend.sent) != 1 {
		t.Fatalf("expected one transaction, got %d", len(backend.sent))
	}

	tx := backend.sent[0]
	if tx.To() == nil || *tx.To() != testContract {
		t.Fatalf("transaction not addressed to the contract")
	}
	method := c.abi.Methods[methodSetHash]
	if !bytes.HasPrefix(tx.Data(), method.ID) || !bytes.Equal(tx.Data()[4:], hash[:]) {
		t.Fatalf("unexpected calldata %x", tx.Data())
	}
	if tx.Gas() != 50000 || tx.Nonce() != 3 {
		t.Fatalf("gas=%d nonce=%d", tx.Gas(), tx.Nonce())
	}
	from, err := types.Sender(types.LatestSignerForChainID(testChainID), tx)
	if err != nil {
		t.Fatalf("Sender: %v", err)
	}
	if from != ethcrypto.PubkeyToAddress(key.PublicKey) {
		t.Fatalf("signed by %s", from.Hex())
	}
	if receipt.TxHash != tx.Hash().Hex() {
		t.Fatalf("receipt hash %s, tx hash %s", receipt.TxHash, tx.Hash().Hex())
	}
}

func TestSetLastMemoryHashReverted(t *testing.T) {
	key, _ := ethcrypto.GenerateKey()
	receipt, err := newTestClient(t, &fakeBackend{status: types.ReceiptStatusFailed}).
		SetLastMemoryHash(context.Background(), key, [32]byte{1})
	if err != nil {
		t.Fatalf("a mined revert is reported through the receipt, got %v", err)
	}
	if receipt.Status != 0 {
		t.Fatalf("status = %d", receipt.Status)
	}
}

func TestSendFailures(t *testing.T) {
	key, _ := ethcrypto.GenerateKey()

	_, err := newTestClient(t, &fakeBackend{sendErr: errors.New("i/o timeout")}).
		SetLastMemoryHash(context.Background(), key, [32]byte{1})
	if !errors.Is(err, apperr.ErrChainUnreachable) {
		t.Fatalf("expected ErrChainUnreachable, got %v", err)
	}

	_, err = newTestClient(t, &fakeBackend{sendErr: nodeError{"insufficient funds for gas * price + value"}}).
		SetLastMemoryHash(context.Background(), key, [32]byte{1})
	if err == nil || errors.Is(err, apperr.ErrChainUnreachable) {
		t.Fatalf("node rejections are not connectivity failures: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	backend := &fakeBackend{noReceipt: true}
	_, err = newTestClient(t, backend).SetLastMemoryHash(ctx, key, [32]byte{1})
	if !errors.Is(err, apperr.ErrReceiptMissing) {
		t.Fatalf("expected ErrReceiptMissing, got %v", err)
	}
	if len(backend.sent) != 1 {
		t.Fatalf("expected exactly one submission, got %d", len(backend.sent))
	}
}

func TestChainIDRetriedAfterFailure(t *testing.T) {
	key, _ := ethcrypto.GenerateKey()
	backend := &fakeBackend{
		status:      types.ReceiptStatusSuccessful,
		chainIDErrs: []error{errors.New("connection refused")},
	}
	c := newTestClient(t, backend)

	_, err := c.SetLastMemoryHash(context.Background(), key, [32]byte{1})
	if !errors.Is(err, apperr.ErrChainUnreachable) {
		t.Fatalf("expected ErrChainUnreachable, got %v", err)
	}
	if len(backend.sent) != 0 {
		t.Fatalf("nothing may be sent without a chain id")
	}

	if _, err := c.SetLastMemoryHash(context.Background(), key, [32]byte{2}); err != nil {
		t.Fatalf("second send after a transient chain id failure: %v", err)
	}
	if _, err := c.SetLastMemoryHash(context.Background(), key, [32]byte{3}); err != nil {
		t.Fatalf("third send: %v", err)
	}
	if backend.chainIDCalls != 2 {
		t.Fatalf("chain id fetched %d times, want 2", backend.chainIDCalls)
	}
	if len(backend.sent) != 2 {
		t.Fatalf("expected two submissions, got %d", len(backend.sent))
	}
}

func TestTransfer(t *testing.T) {
	key, _ := ethcrypto.GenerateKey()
	backend := &fakeBackend{status: types.ReceiptStatusSuccessful}
	c := newTestClient(t, backend)
	to := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")

	if _, err := c.Transfer(context.Background(), key, to, big.NewInt(0)); !errors.Is(err, apperr.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	amount := big.NewInt(1_000_000_000_000_000)
	if _, err := c.Transfer(context.Background(), key, to, amount); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	tx := backend.sent[0]
	if *tx.To() != to || tx.Value().Cmp(amount) != 0 || tx.Gas() != transferGasLimit || len(tx.Data()) != 0 {
		t.Fatalf("unexpected transfer tx to=%s value=%s gas=%d", tx.To().Hex(), tx.Value(), tx.Gas())
	}
}

func TestBalance(t *testing.T) {
	c := newTestClient(t, &fakeBackend{balance: big.NewInt(12345)})
	got, err := c.Balance(context.Background(), common.Address{})
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if got.Int64() != 12345 {
		t.Fatalf("balance = %s", got)
	}
}
