package model

// Receipt is the part of a transaction receipt the CLI reports
type Receipt struct {
	Status      uint64 // 1 = executed, 0 = reverted
	TxHash      string
	BlockHash   string
	BlockNumber uint64
	GasUsed     uint64
}

// ReadStatus classifies the outcome of a read-only contract call
type ReadStatus int

const (
	ReadOK ReadStatus = iota
	ReadUndecodable
	ReadTransportError
)

func (s ReadStatus) String() string {
	switch s {
	case ReadOK:
		return "ok"
	case ReadUndecodable:
		return "undecodable"
	case ReadTransportError:
		return "transport-error"
	default:
		return "unknown"
	}
}

// ReadResult is the typed outcome of a bytes32 view call.
// Value is meaningful only when Status is ReadOK; Err is set otherwise.
type ReadResult struct {
	Status ReadStatus
	Value  [32]byte
	Err    error
}
