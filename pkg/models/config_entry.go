package models

// ConfigEntry is a single row of the config table.
//
// Value holds the stored text exactly as written. Structured values are kept
// as JSON; see the codec package for the encoding rules.
type ConfigEntry struct {
	Key   string `gorm:"column:key;primaryKey;type:text" json:"key" yaml:"key"`
	Value string `gorm:"column:value;type:text;not null" json:"value" yaml:"value"`
}

// TableName returns the table name for ConfigEntry.
func (ConfigEntry) TableName() string {
	return "config"
}
