package domain

// ConnectionState is the state of the signer connection
type ConnectionState string

const (
	Disconnected ConnectionState = "disconnected"
	Connecting   ConnectionState = "connecting"
	Connected    ConnectionState = "connected"
)

// OperationStatus is the observable state of a guarded operation
type OperationStatus string

const (
	StatusIdle      OperationStatus = "idle"
	StatusPending   OperationStatus = "pending"
	StatusSucceeded OperationStatus = "succeeded"
	StatusFailed    OperationStatus = "failed"
)

// Account is an address exposed by an offline signer
type Account struct {
	Address string `json:"address"`
	PubKey  []byte `json:"pubkey,omitempty"`
}
