package models

import (
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
)

// Instruction kinds recorded in receipts.
const (
	KindInitialize = "initialize"
	KindDeposit    = "deposit"
	KindWithdraw   = "withdraw"
)

// Receipt records one committed instruction.
type Receipt struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Identity  address.Address `json:"identity"`
	Vault     address.Address `json:"vault"`
	Amount    uint64          `json:"amount"`
	StartTime uint64          `json:"start_time"`
	EndTime   uint64          `json:"end_time"`
	CreatedAt time.Time       `json:"created_at"`
}
