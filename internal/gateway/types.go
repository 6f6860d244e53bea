package gateway

import "errors"

// ErrMissingBaseURL is returned when the client is constructed without a gateway URL.
var ErrMissingBaseURL = errors.New("gateway base url is required")

// MediaPayload is the gateway's base64 media response for a message.
type MediaPayload struct {
	Base64   string `json:"base64"`
	Mimetype string `json:"mimetype"`
}

// SendTextRequest is the outbound text message payload.
type SendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// SendReceipt is the gateway's acknowledgement for a sent message.
type SendReceipt struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// Chat is a conversation known to a gateway instance.
type Chat struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	UnreadCount  int    `json:"unread_count"`
	LastMessage  string `json:"last_message"`
	IsGroup      bool   `json:"is_group"`
	ProfilePhoto string `json:"profile_photo_url"`
}

// InstanceState reports the connection state of a gateway instance.
type InstanceState struct {
	Instance string `json:"instance"`
	State    string `json:"state"`
}
