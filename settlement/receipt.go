package settlement

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bitfsorg/libservicemarket-go/ledger"
)

// BucketSettlements stores one Receipt per committed settlement, keyed by id.
const BucketSettlements ledger.Bucket = "settlements"

// Mode is the purchase mode of a settlement.
type Mode string

const (
	ModeDirect   Mode = "direct"
	ModeBrokered Mode = "brokered"
)

// Receipt records a committed settlement. It is written in the same ledger
// transaction as the transfers it lists.
type Receipt struct {
	ID          uuid.UUID
	Mode        Mode
	Mint        ledger.Address // service token mint
	TokenAmount uint64
	NFTAmount   uint64
	Royalty     uint64 // zero for direct purchases
	Net         uint64
	Holding     ledger.Address // zero for direct purchases
	Legs        []ledger.Entry
}

func saveReceipt(tx ledger.Tx, r *Receipt) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return fmt.Errorf("settlement: encode receipt: %w", err)
	}
	return tx.Put(BucketSettlements, r.ID[:], buf.Bytes())
}

func loadReceipt(tx ledger.Tx, id uuid.UUID) (*Receipt, error) {
	data, err := tx.Get(BucketSettlements, id[:])
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrReceiptNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var r Receipt
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: receipt %s: %w", ledger.ErrCorruptRecord, id, err)
	}
	return &r, nil
}
