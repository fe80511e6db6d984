// internal/models/customer.go
package models

type Customer struct {
	BaseModel
	Name    string       `json:"name" gorm:"size:255;not null"`
	Email   string       `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Phone   string       `json:"phone" gorm:"size:50"`
	Address string       `json:"address" gorm:"type:text"`
	Status  RecordStatus `json:"status" gorm:"type:varchar(20);not null"`
	Notes   string       `json:"notes" gorm:"type:text"`
}
