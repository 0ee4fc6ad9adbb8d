package po

import "time"

// EntryPO 键值条目持久化对象
type EntryPO struct {
	Scope     string    `gorm:"primaryKey;size:32"`
	Key       string    `gorm:"primaryKey;size:128;column:key"`
	Value     string    `gorm:"type:mediumtext;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (EntryPO) TableName() string {
	return "kv_entries"
}
