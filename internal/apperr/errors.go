// Package apperr defines the error taxonomy shared by the keystore, address and anchor packages.
//
// Callers branch on Kind (or on a sentinel via errors.Is) rather than on error strings.
// Error() strings are human-readable and may change.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is a stable category used to pick remediation and exit/HTTP status.
type Kind string

const (
	KindConfiguration  Kind = "ConfigurationError"
	KindValidation     Kind = "ValidationError"
	KindConflict       Kind = "ConflictError"
	KindNotFound       Kind = "NotFoundError"
	KindAuthentication Kind = "AuthenticationError"
	KindNetwork        Kind = "NetworkError"
	KindProtocol       Kind = "ProtocolError"
	KindInternal       Kind = "InternalError"
)

// Error is a structured error carrying a Kind and a stable Code.
//
// Two *Error values match under errors.Is when their Codes are equal, so a sentinel
// re-issued with a more specific message still matches the sentinel.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Msgf returns a copy of e with a new message.
func (e *Error) Msgf(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a copy of e with a new message and an underlying cause.
func (e *Error) Wrap(cause error, format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is (or wraps) an *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// Configuration
var (
	ErrInvalidConfig   = newError(KindConfiguration, "invalid_config", "invalid configuration")
	ErrMissingArgument = newError(KindValidation, "missing_argument", "missing argument")
)

// Passphrase
var (
	ErrNoPassphrase    = newError(KindConfiguration, "no_passphrase", "no passphrase available")
	ErrEmptyPassphrase = newError(KindValidation, "empty_passphrase", "no passphrase provided")
)

// Keystore
var (
	ErrInvalidWalletName = newError(KindValidation, "invalid_wallet_name", "invalid wallet name")
	ErrInvalidMnemonic   = newError(KindValidation, "invalid_mnemonic", "invalid recovery phrase")
	ErrInvalidKeyType    = newError(KindValidation, "invalid_key_type", "unsupported key type")
	ErrWalletExists      = newError(KindConflict, "wallet_exists", "wallet already exists")
	ErrWalletNotFound    = newError(KindNotFound, "wallet_not_found", "wallet not found")
	ErrWrongPassphrase   = newError(KindAuthentication, "wrong_passphrase", "wrong passphrase, could not decrypt wallet")
	ErrMalformedRecord   = newError(KindInternal, "malformed_record", "malformed wallet record")
)

// Addresses
var (
	ErrInvalidAddressPrefix   = newError(KindValidation, "invalid_address_prefix", "invalid address prefix")
	ErrInvalidAddressEncoding = newError(KindValidation, "invalid_address_encoding", "invalid address encoding")
	ErrMissingHexPrefix       = newError(KindValidation, "missing_hex_prefix", "expected an address starting with 0x")
	ErrInvalidHexDigits       = newError(KindValidation, "invalid_hex_digits", "not a valid EVM address")
)

// Anchoring and chain access
var (
	ErrInvalidCID          = newError(KindValidation, "invalid_cid", "invalid CID")
	ErrUnsupportedHash     = newError(KindValidation, "unsupported_multihash", "unsupported CID multihash")
	ErrSentinelHash        = newError(KindValidation, "sentinel_hash", "refusing to anchor the all-zero sentinel hash")
	ErrInvalidAmount       = newError(KindValidation, "invalid_amount", "invalid amount")
	ErrInsufficientBalance = newError(KindValidation, "insufficient_balance", "insufficient balance")
	ErrInvalidNetwork      = newError(KindValidation, "invalid_network", "invalid network")
	ErrContractUnavailable = newError(KindNetwork, "contract_unavailable", "contract not available")
	ErrChainUnreachable    = newError(KindNetwork, "chain_unreachable", "chain unreachable")
	ErrTransactionReverted = newError(KindProtocol, "transaction_reverted", "transaction reverted")
	ErrReceiptMissing      = newError(KindProtocol, "receipt_missing", "transaction was sent but no receipt was received")
	ErrUndecodableResponse = newError(KindProtocol, "undecodable_response", "could not decode chain response")
)
