package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
)

const alicePub = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSystemAccountKey(t *testing.T) {
	got := SystemAccountKey(mustHex(t, alicePub))
	want := "0x26aa394eea5630e07c48ae0c9558cef7" + // twox128("System")
		"b99d880ec681799c0cf30e8886371da9" + // twox128("Account")
		"de1e86a9a8c739864cf3cc5ec2bea59f" + // blake2_128(alice)
		alicePub
	if got != want {
		t.Fatalf("SystemAccountKey =\n%s\nwant\n%s", got, want)
	}
}

// u128le encodes v as 16 little-endian bytes
func u128le(v *big.Int) []byte {
	out := make([]byte, 16)
	be := v.Bytes()
	for i := range be {
		out[i] = be[len(be)-1-i]
	}
	return out
}

func accountInfoBytes(nonce uint32, free, reserved, frozen *big.Int) []byte {
	buf := []byte{byte(nonce), byte(nonce >> 8), byte(nonce >> 16), byte(nonce >> 24)}
	buf = append(buf, make([]byte, 12)...) // consumers, providers, sufficients
	buf = append(buf, u128le(free)...)
	buf = append(buf, u128le(reserved)...)
	buf = append(buf, u128le(frozen)...)
	buf = append(buf, make([]byte, 16)...) // flags
	return buf
}

func TestDecodeAccountInfo(t *testing.T) {
	free, _ := new(big.Int).SetString("1500000000000000000000", 10) // 1500 AI3
	reserved := big.NewInt(42)
	frozen := big.NewInt(7)

	info, err := DecodeAccountInfo(accountInfoBytes(5, free, reserved, frozen))
	if err != nil {
		t.Fatalf("DecodeAccountInfo: %v", err)
	}
	if info.Nonce != 5 {
		t.Errorf("nonce = %d", info.Nonce)
	}
	if info.Free.Cmp(free) != 0 || info.Reserved.Cmp(reserved) != 0 || info.Frozen.Cmp(frozen) != 0 {
		t.Errorf("decoded %s/%s/%s", info.Free, info.Reserved, info.Frozen)
	}
	if want := new(big.Int).Add(free, reserved); info.Total().Cmp(want) != 0 {
		t.Errorf("total = %s, want %s", info.Total(), want)
	}

	_, err = DecodeAccountInfo(make([]byte, 10))
	if !errors.Is(err, apperr.ErrUndecodableResponse) {
		t.Fatalf("expected ErrUndecodableResponse, got %v", err)
	}
}

func TestDecodeAccountInfoFromEncoder(t *testing.T) {
	free, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10) // u128 max
	var in types.AccountInfo
	in.Nonce = types.NewU32(9)
	in.Data.Free = types.NewU128(*free)
	in.Data.Reserved = types.NewU128(*big.NewInt(3))
	in.Data.MiscFrozen = types.NewU128(*big.NewInt(2))
	in.Data.Flags = types.NewU128(*big.NewInt(0))

	var buf bytes.Buffer
	if err := scale.NewEncoder(&buf).Encode(in); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), accountInfoBytes(9, free, big.NewInt(3), big.NewInt(2))) {
		t.Fatalf("encoded layout differs from the storage layout:\n%x", buf.Bytes())
	}

	info, err := DecodeAccountInfo(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeAccountInfo: %v", err)
	}
	if info.Nonce != 9 || info.Free.Cmp(free) != 0 || info.Reserved.Int64() != 3 || info.Frozen.Int64() != 2 {
		t.Fatalf("unexpected %+v", info)
	}
}

type fakeCaller struct {
	result *string
	err    error
	method string
	args   []interface{}
}

func (f *fakeCaller) CallContext(_ context.Context, result interface{}, method string, args ...interface{}) error {
	f.method, f.args = method, args
	if f.err != nil {
		return f.err
	}
	*(result.(**string)) = f.result
	return nil
}

func (f *fakeCaller) Close() {}

func TestConsensusAccount(t *testing.T) {
	encoded := "0x" + hex.EncodeToString(accountInfoBytes(1, big.NewInt(1000), big.NewInt(0), big.NewInt(0)))
	caller := &fakeCaller{result: &encoded}
	c := NewConsensusClient(caller)

	info, err := c.Account(context.Background(), mustHex(t, alicePub))
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	if info.Free.Int64() != 1000 {
		t.Fatalf("free = %s", info.Free)
	}
	if caller.method != "state_getStorage" || len(caller.args) != 1 {
		t.Fatalf("unexpected call %s %v", caller.method, caller.args)
	}
	if key, _ := caller.args[0].(string); !strings.HasSuffix(key, alicePub) {
		t.Fatalf("unexpected storage key %v", caller.args[0])
	}
}

func TestConsensusAccountMissingIsZero(t *testing.T) {
	c := NewConsensusClient(&fakeCaller{})
	info, err := c.Account(context.Background(), mustHex(t, alicePub))
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	if info.Free.Sign() != 0 || info.Total().Sign() != 0 {
		t.Fatalf("expected zero balance, got %s", info.Free)
	}
}

func TestConsensusAccountErrors(t *testing.T) {
	c := NewConsensusClient(&fakeCaller{err: errors.New("websocket: close 1006")})
	_, err := c.Account(context.Background(), mustHex(t, alicePub))
	if !errors.Is(err, apperr.ErrChainUnreachable) {
		t.Fatalf("expected ErrChainUnreachable, got %v", err)
	}

	if _, err := c.Account(context.Background(), []byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short public key")
	}
}
