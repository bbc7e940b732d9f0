package dto

import "net/mail"

type EmailMessage struct {
	To      []mail.Address
	Subject string
	Text    string
	HTML    string
}
