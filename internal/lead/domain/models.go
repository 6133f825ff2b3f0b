package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
)

type Lead struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyName    string       `gorm:"not null" json:"company_name"`
	ContactPerson  string       `gorm:"not null" json:"contact_person"`
	Phone          string       `json:"phone,omitempty"`
	Email          string       `json:"email,omitempty"`
	Address        string       `json:"address,omitempty"`
	City           string       `json:"city,omitempty"`
	State          string       `json:"state,omitempty"`
	Pincode        string       `json:"pincode,omitempty"`
	GSTIN          string       `gorm:"column:gstin" json:"gstin,omitempty"`
	Status         string       `gorm:"not null;default:'new'" json:"status"`
	Source         string       `gorm:"not null;default:'other'" json:"source"`
	EstimatedValue *float64     `json:"estimated_value,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Customer is the snapshot of the lead printed on documents.
func (l Lead) Customer() docdomain.Customer {
	return docdomain.Customer{
		CompanyName:   l.CompanyName,
		ContactPerson: l.ContactPerson,
		Phone:         l.Phone,
		Email:         l.Email,
		Address:       l.Address,
		City:          l.City,
		State:         l.State,
		Pincode:       l.Pincode,
		GSTIN:         l.GSTIN,
	}
}
