package notification

import (
	"gorm.io/gorm"

	"github.com/CareBridgeServices/care-marketplace/internal/models"
)

const (
	TypeNewJobPost        = "NEW_JOB_POST"
	TypeJobApplication    = "JOB_APPLICATION"
	TypeNewBookingRequest = "NEW_BOOKING_REQUEST"
	TypeBookingAccepted   = "BOOKING_ACCEPTED"
	TypeBookingStarted    = "BOOKING_STARTED"
	TypeBookingRejected   = "BOOKING_REJECTED"
	TypeBookingCanceled   = "BOOKING_CANCELED"
	TypeBookingCompleted  = "BOOKING_COMPLETED"
	TypePaymentReceived   = "PAYMENT_RECEIVED"
	TypePaymentConfirmed  = "PAYMENT_CONFIRMED"
	TypeProfileApproved   = "PROFILE_APPROVED"
)

type Notifier struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

type Message struct {
	Type        string
	Message     string
	FamilyID    *uint
	CaregiverID *uint
	JobPostID   *uint
	BookingID   *uint
	Recipient   string // FAMILY | CARE
}

func (n *Notifier) Send(m Message) error {
	row := models.Notification{
		Type:          m.Type,
		Message:       m.Message,
		FamilyID:      m.FamilyID,
		CaregiverID:   m.CaregiverID,
		JobPostID:     m.JobPostID,
		BookingID:     m.BookingID,
		RecipientType: m.Recipient,
	}

	return n.db.Create(&row).Error
}
