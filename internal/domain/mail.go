package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const (
	MailTypePairingComplete = "pairing_complete"
	MailTypePairingFailed   = "pairing_failed"
)

type PairingCompleteMailData struct {
	FullName   string  `json:"fullName"`
	EventName  string  `json:"eventName"`
	TeamCount  int     `json:"teamCount"`
	Cost       float64 `json:"cost"`
	Iterations int64   `json:"iterations"`
}

type PairingFailedMailData struct {
	FullName  string `json:"fullName"`
	EventName string `json:"eventName"`
	Reason    string `json:"reason"`
}
