package models

// Account is the household tenant whose expenses and budgets are scoped together.
type Account struct {
	Base
	Name     string `gorm:"not null" json:"name"`
	Currency string `gorm:"not null;default:'EUR'" json:"currency"`

	// Relationships
	Members  []Member  `gorm:"foreignKey:AccountID" json:"members,omitempty"`
	Budgets  []Budget  `gorm:"foreignKey:AccountID" json:"budgets,omitempty"`
	Expenses []Expense `gorm:"foreignKey:AccountID" json:"expenses,omitempty"`
}

// MemberRole represents a member's role within an account
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// Member represents a person belonging to an account. Identity and
// credentials live with the external auth provider; this row only
// carries what the engine needs to scope data and fan out alerts.
type Member struct {
	Base
	AccountID   string     `gorm:"type:uuid;not null;index" json:"account_id"`
	DisplayName string     `gorm:"not null" json:"display_name"`
	Role        MemberRole `gorm:"not null;default:'member'" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
}
