package notify

// FakeMailer records sent mail for test assertions.
type FakeMailer struct {
	// Sent contains every message handed to Send, in order.
	Sent []SentMail

	// SendError, if set, will be returned by Send.
	SendError error
}

// SentMail is one recorded message.
type SentMail struct {
	Subject string
	Body    string
	To      []string
}

// NewFakeMailer creates a FakeMailer for testing.
func NewFakeMailer() *FakeMailer {
	return &FakeMailer{}
}

// Send records the message.
func (f *FakeMailer) Send(subject, body string, to []string) error {
	if f.SendError != nil {
		return f.SendError
	}
	f.Sent = append(f.Sent, SentMail{Subject: subject, Body: body, To: to})
	return nil
}

// Reset clears recorded mail.
func (f *FakeMailer) Reset() {
	f.Sent = nil
	f.SendError = nil
}
