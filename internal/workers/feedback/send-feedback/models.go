package sendfeedback

import "time"

type Input struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Message  string `json:"message"`
	Subject  string `json:"subject,omitempty"`
	Category string `json:"category,omitempty"`
	District string `json:"district,omitempty"`
}

type Output struct {
	FeedbackID     string    `json:"feedbackId"`
	Delivered      bool      `json:"feedbackDelivered"`
	EmailMessageID string    `json:"emailMessageId"`
	NotificationID string    `json:"notificationId,omitempty"`
	SentAt         time.Time `json:"sentAt"`
}
