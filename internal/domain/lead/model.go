package lead

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lead is one moving-quote request submitted through the cost calculator.
type Lead struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name  string    `json:"name" gorm:"not null"`
	Email string    `json:"email" gorm:"not null;index:idx_leads_email"`
	Phone string    `json:"phone" gorm:"not null"`

	LeadType   string     `json:"lead_type" gorm:"type:varchar(50);not null"`
	LeadSource string     `json:"lead_source" gorm:"type:varchar(200)"`
	MoveDate   *time.Time `json:"move_date,omitempty"`
	MoveSize   string     `json:"move_size" gorm:"type:varchar(100)"`

	FromState string `json:"from_state" gorm:"type:varchar(100)"`
	FromCity  string `json:"from_city" gorm:"type:varchar(100)"`
	FromZip   string `json:"from_zip" gorm:"type:varchar(20)"`
	ToState   string `json:"to_state" gorm:"type:varchar(100)"`
	ToCity    string `json:"to_city" gorm:"type:varchar(100)"`
	ToZip     string `json:"to_zip" gorm:"type:varchar(20)"`

	// Payload preserves the submission exactly as received, for audit and
	// for replaying against the partner if the contract changes.
	Payload datatypes.JSON `json:"payload,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`

	Responses []LeadResponse `json:"responses,omitempty" gorm:"foreignKey:LeadID"`
}

// TableName specifies the table name for the Lead model
func (Lead) TableName() string {
	return "leads"
}

// BeforeCreate is called before persisting a new lead
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// LeadResponse is the audit record of one forwarding attempt to the partner.
// A failed attempt is recorded with StatusCode zero and the error text.
type LeadResponse struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	LeadID     uuid.UUID `json:"lead_id" gorm:"type:uuid;not null;index:idx_lead_responses_lead"`
	StatusCode int       `json:"status_code" gorm:"not null"`
	Body       string    `json:"body" gorm:"type:text"`

	ForwardedAt time.Time `json:"forwarded_at" gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the LeadResponse model
func (LeadResponse) TableName() string {
	return "lead_responses"
}

// BeforeCreate is called before persisting a new response record
func (r *LeadResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ForwardedAt.IsZero() {
		r.ForwardedAt = time.Now().UTC()
	}
	return nil
}
