package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DecimalMap is a JSON-serialized column of named decimal values.
type DecimalMap map[string]decimal.Decimal

// Value implements driver.Valuer.
func (m DecimalMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *DecimalMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(DecimalMap)
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported DecimalMap source type %T", value)
	}
}

// FxPairKey builds the map key for a directional currency pair.
func FxPairKey(from, to string) string {
	return from + "_" + to
}

// FxRate is an immutable snapshot of pairwise conversion rates, keyed by
// FxPairKey for every ordered pair of supported currencies. Same-currency
// pairs are implicit (rate 1) and never stored.
type FxRate struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	Rates        DecimalMap      `gorm:"type:json;not null" json:"rates"`
	FxPercentage decimal.Decimal `gorm:"type:decimal(8,6);not null" json:"fx_percentage"`
	CreatedAt    time.Time       `gorm:"index;not null" json:"created_at"`
}

// TableName sets the table name.
func (FxRate) TableName() string {
	return "fx_rates"
}

// Rate returns the stored directional rate, or false when the pair is absent.
func (r *FxRate) Rate(from, to string) (decimal.Decimal, bool) {
	if r == nil || r.Rates == nil {
		return decimal.Decimal{}, false
	}
	if from == to {
		return decimal.NewFromInt(1), true
	}
	rate, ok := r.Rates[FxPairKey(from, to)]
	return rate, ok
}
