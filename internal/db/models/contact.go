package models

import (
	"regexp"
	"time"

	"github.com/uptrace/bun"
)

// Field length limits for contact records.
const (
	NameMaxLen  = 128
	PhoneMaxLen = 16
)

// PhonePattern accepts numbers with an 8 or +7 prefix, an optional
// 3-digit area code (optionally parenthesized), and 7-10 digits or
// separators in the remainder.
var PhonePattern = regexp.MustCompile(`^((8|\+7)[\- ]?)(\(?\d{3}\)?[\- ]?)?[\d\- ]{7,10}$`)

// Contact is a single address-book entry. OwnerID is assigned from the
// authenticated user at creation time and never changes afterwards.
type Contact struct {
	bun.BaseModel `bun:"table:contacts,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	OwnerID   int64     `bun:"owner_id,notnull" json:"-"`
	FirstName string    `bun:"first_name,notnull" json:"first_name"`
	LastName  string    `bun:"last_name,notnull" json:"last_name"`
	Phone     string    `bun:"phone,notnull" json:"phone"`
	Email     string    `bun:"email,notnull" json:"email"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"-"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"-"`
}

// ValidPhone reports whether the phone number matches PhonePattern.
func ValidPhone(phone string) bool {
	return PhonePattern.MatchString(phone)
}
