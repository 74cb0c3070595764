package identity

import (
	"errors"

	"gorm.io/gorm"
)

// User mirrors the identity service's projection of an account. The play
// service only ever reads these rows.
type User struct {
	UserID   string `gorm:"primaryKey"`
	Username string
	Guest    bool
	Trophies int
}

// Block is a directed edge blocker -> blocked.
type Block struct {
	ID        uint   `gorm:"primaryKey"`
	BlockerID string `gorm:"index"`
	BlockedID string `gorm:"index"`
}

// Friendship is stored once per pair, lower id first.
type Friendship struct {
	ID      uint   `gorm:"primaryKey"`
	UserAID string `gorm:"index"`
	UserBID string `gorm:"index"`
}

// Store answers identity queries from the shared database.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&User{}, &Block{}, &Friendship{}); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Trophies(userID string) int {
	var user User
	err := s.DB.First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	return user.Trophies
}

func (s *Store) IsGuest(userID string) bool {
	var user User
	err := s.DB.First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Unknown users are treated as guests.
		return true
	}
	return user.Guest
}

func (s *Store) Blocked(a, b string) bool {
	var count int64
	s.DB.Model(&Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count)
	return count > 0
}

func (s *Store) Friends(a, b string) bool {
	var count int64
	s.DB.Model(&Friendship{}).
		Where("(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)", a, b, b, a).
		Count(&count)
	return count > 0
}
