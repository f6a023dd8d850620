package model

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	CommunityID     string    `gorm:"size:36;not null;index" json:"communityId"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Schedule        time.Time `gorm:"not null;index" json:"schedule"`
	Location        *string   `gorm:"size:512" json:"location"`
	IsVirtual       bool      `gorm:"not null;default:false" json:"isVirtual"`
	Recurrence      string    `gorm:"size:512" json:"recurrence,omitempty"` // RFC 5545 RRULE
	CreatedBy       string    `gorm:"size:36;not null;index" json:"createdBy"`
	AttendeesCount  int64     `gorm:"not null;default:0" json:"attendeesCount"`  // status=going
	InterestedCount int64     `gorm:"not null;default:0" json:"interestedCount"` // status=interested
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Community *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	Creator   *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	newID(&e.ID)
	return nil
}

// BeforeSave 统一存 UTC，保证 schedule 比较在各方言下一致
func (e *Event) BeforeSave(*gorm.DB) error {
	e.Schedule = e.Schedule.UTC()
	return nil
}

type RSVPStatus string

const (
	RSVPGoing      RSVPStatus = "going"
	RSVPInterested RSVPStatus = "interested"
	RSVPNotGoing   RSVPStatus = "not_going"
)

func (s RSVPStatus) Valid() bool {
	return s == RSVPGoing || s == RSVPInterested || s == RSVPNotGoing
}

type EventRSVP struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	EventID   string     `gorm:"size:36;not null;uniqueIndex:uk_event_user" json:"eventId"`
	UserID    string     `gorm:"size:36;not null;index;uniqueIndex:uk_event_user" json:"userId"`
	Status    RSVPStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func (EventRSVP) TableName() string {
	return "event_rsvp"
}

func (r *EventRSVP) BeforeCreate(*gorm.DB) error {
	newID(&r.ID)
	return nil
}
