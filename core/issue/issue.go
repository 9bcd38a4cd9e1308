package issue

import "time"

// Report is one customer-filed problem on an order.
type Report struct {
	ID                 string     `json:"id" db:"issue_id"`
	OrderID            string     `json:"-" db:"order_id"`
	Username           string     `json:"username" db:"username"`
	Summary            string     `json:"summary" db:"summary"`
	Details            string     `json:"details" db:"details"`
	AttachmentImageURL string     `json:"attachmentImageUrl" db:"attachment_image_url"`
	Open               bool       `json:"open" db:"open"`
	ReportedAt         time.Time  `json:"reportedAt" db:"reported_at"`
	ResolvedByAdmin    *string    `json:"resolvedByAdmin" db:"resolved_by_admin"`
	ResolvedAt         *time.Time `json:"resolvedAt" db:"resolved_at"`
	AdminNotes         string     `json:"adminNotes" db:"admin_notes"`
}

type Resolution struct {
	ResolvedByAdmin string    `json:"resolvedByAdmin"`
	ResolvedAt      time.Time `json:"resolvedAt"`
	AdminNotes      string    `json:"adminNotes"`
}

type ResolveRequest struct {
	AdminNotes string `json:"adminNotes" validate:"required,max=500"`
}

type ReportNew struct {
	Summary            string `json:"summary" validate:"required,max=200"`
	Details            string `json:"details" validate:"required,max=2000"`
	AttachmentImageURL string `json:"attachmentImageUrl" validate:"omitempty,url"`
}
