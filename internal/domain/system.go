package domain

import "time"

// Blob kinds managed as opaque key-value documents for the dashboard.
const (
	BlobConfig     = "config"
	BlobTheme      = "theme"
	BlobCalculator = "calculator"
)

// SysBlob holds one opaque JSON document (dashboard config, theme,
// calculator state). The core never interprets the value.
type SysBlob struct {
	Kind      string    `gorm:"primaryKey;size:32" json:"kind"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysBlob) TableName() string {
	return "sys_blob"
}

// State is the full persisted dataset loaded at startup.
type State struct {
	Transactions []Transaction     `json:"transactions"`
	Loyalty      []LoyaltyAccount  `json:"loyalty"`
	Blobs        map[string]string `json:"blobs"`
}
