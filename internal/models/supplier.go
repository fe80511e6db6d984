// internal/models/supplier.go
package models

type Supplier struct {
	BaseModel
	Name    string       `json:"name" gorm:"size:255;not null"`
	Email   string       `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Phone   string       `json:"phone" gorm:"size:50"`
	Address string       `json:"address" gorm:"type:text"`
	Company string       `json:"company" gorm:"size:255"`
	Status  RecordStatus `json:"status" gorm:"type:varchar(20);not null"`
	Notes   string       `json:"notes" gorm:"type:text"`
}
