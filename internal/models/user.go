// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role distinguishes the two sides of a coaching partnership.
type Role string

const (
	// RoleMentor is a coach offering workout programming.
	RoleMentor Role = "Mentor"
	// RoleMentee is a client requesting coaching.
	RoleMentee Role = "Mentee"
)

// Location is a user's city and state.
type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// Height in feet and inches.
type Height struct {
	Feet   float64 `json:"feet"`
	Inches float64 `json:"inches"`
}

// Weight in pounds.
type Weight struct {
	Lbs float64 `json:"lbs"`
}

// Rating is the aggregate of scores a user has received.
type Rating struct {
	NumberOfRatings float64 `json:"number_of_ratings"`
	TotalScore      int     `json:"total_score"`
}

// Rates are a mentor's prices for a trial workout and for a committed client.
type Rates struct {
	Try     float64 `json:"try"`
	Loyalty float64 `json:"loyalty"`
}

// User represents a mentor or mentee profile.
//
// UserID is the external identifier handed to us by the identity provider and
// is opaque to this service. Mentors are created with an empty UserID until one
// is assigned after their application is approved; among non-empty values it
// must be unique, which the partial index below enforces. Lookups still count
// matches defensively and treat more than one as store corruption.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"-"`
	UserID        string     `gorm:"size:128;index:idx_users_user_id,unique,where:user_id <> ''" json:"user_id"`
	Role          Role       `gorm:"type:varchar(10);not null;index" json:"role"`
	Name          string     `gorm:"size:120;not null" json:"name"`
	Phone         string     `gorm:"size:32" json:"phone"`
	Email         string     `gorm:"size:254;not null" json:"email"`
	VenmoUsername string     `gorm:"size:64;column:venmo_username" json:"VenmoUsername"`
	Gender        string     `gorm:"size:32" json:"gender"`
	Age           float64    `json:"age"`
	Height        Height     `gorm:"embedded;embeddedPrefix:height_" json:"height"`
	Weight        Weight     `gorm:"embedded;embeddedPrefix:weight_" json:"weight"`
	Location      Location   `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Tags          StringList `gorm:"type:text" json:"tags"`
	Bio           string     `gorm:"type:text" json:"bio"`
	PicURL        string     `gorm:"column:pic_url" json:"pic_url"`
	Rating        Rating     `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`

	// Mentor-only fields; zero-valued for mentees.
	AcceptingClients bool  `json:"accepting_clients"`
	Rates            Rates `gorm:"embedded;embeddedPrefix:rate_" json:"rates"`

	// Partners holds the external ids of confirmed counterparts. The mirror
	// entry lives on the counterpart's own row; see service.PartnerLedger.
	Partners StringList `gorm:"type:text" json:"partners"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// CounterpartRole returns the opposite role.
func CounterpartRole(r Role) Role {
	if r == RoleMentor {
		return RoleMentee
	}
	return RoleMentor
}
