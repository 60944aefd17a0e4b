package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Session struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"                      json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"                  json:"userId"`
	User       User      `gorm:"constraint:OnDelete:CASCADE"               json:"-"`
	Token      string    `gorm:"uniqueIndex;not null"                      json:"-"`
	Device     string    `gorm:"not null"                                  json:"device"`
	Browser    string    `json:"browser,omitempty"`
	OS         string    `json:"os,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	Location   string    `json:"location,omitempty"`
	LastActive time.Time `gorm:"index"                                     json:"lastActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.LastActive.IsZero() {
		s.LastActive = time.Now().UTC()
	}
	return nil
}

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null"    json:"userId"`
	User        User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title       string     `gorm:"not null"                    json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `gorm:"not null;default:todo"       json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
