package services

import (
	"gorm.io/gorm"

	apperrors "fairshare/internal/errors"
	"fairshare/internal/models"
)

// memberService backs the MembershipProvider contract with the shared
// store. Identity management itself lives with the external auth
// collaborator; this only reads the membership rows alerts fan out to.
type memberService struct {
	db *gorm.DB
}

// NewMemberService creates a new MembershipProvider.
func NewMemberService(db *gorm.DB) MembershipProvider {
	return &memberService{db: db}
}

// ListMembers returns the active members of an account.
func (s *memberService) ListMembers(accountID string) ([]models.Member, error) {
	var members []models.Member
	if err := s.db.Where("account_id = ? AND is_active = ?", accountID, true).Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return members, nil
}
