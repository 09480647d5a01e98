package event

import "time"

const (
	OtpIssuedDestination   string = "otp.issued"
	OtpVerifiedDestination string = "otp.verified"
	OtpSweptDestination    string = "otp.swept"
)

type OtpIssuedMessage struct {
	RecordID    int64     `json:"record_id"`
	Phone       string    `json:"phone"`
	Purpose     string    `json:"purpose"`
	ExpiresAt   time.Time `json:"expires_at"`
	DeliveryRef string    `json:"delivery_ref,omitempty"`
	Resend      bool      `json:"resend"`
}

type OtpVerifiedMessage struct {
	RecordID   int64     `json:"record_id"`
	Phone      string    `json:"phone"`
	Purpose    string    `json:"purpose"`
	VerifiedAt time.Time `json:"verified_at"`
}

type OtpSweptMessage struct {
	Deleted    int64     `json:"deleted"`
	Archived   int64     `json:"archived"`
	ArchiveKey string    `json:"archive_key,omitempty"`
	SweptAt    time.Time `json:"swept_at"`
}
