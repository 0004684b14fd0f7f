package main

import (
	"fmt"
	"strings"

	"github.com/vibhu2208/oberoi-realiy/libs/mailer"
)

const (
	subjectFooterInquiry = "New Inquiry - Luxury Contact Form"
	subjectPopupInquiry  = "New Inquiry - Schedule Visit Popup"
)

type emailRow struct {
	Label string
	Value string
}

func inquirySubject(source InquirySource) string {
	if source == SourceFooter {
		return subjectFooterInquiry
	}
	return subjectPopupInquiry
}

// inquiryEmailRows assembles the label/value rows for both renderings of the
// notification email. Row values are already sanitized at parse time.
func inquiryEmailRows(inquiry Inquiry) []emailRow {
	var rows []emailRow

	if inquiry.Source == SourceFooter {
		rows = append(rows,
			emailRow{Label: "Full Name", Value: inquiry.Contact.Name},
			emailRow{Label: "Phone Number", Value: inquiry.Contact.Phone},
		)
		if inquiry.Contact.Email != "" {
			rows = append(rows, emailRow{Label: "Email Address", Value: inquiry.Contact.Email})
		}
	} else {
		rows = append(rows,
			emailRow{Label: "Name", Value: inquiry.Contact.Name},
			emailRow{Label: "Phone", Value: inquiry.Contact.Phone},
		)
		if inquiry.Contact.Email != "" {
			rows = append(rows, emailRow{Label: "Email", Value: inquiry.Contact.Email})
		}
	}

	rows = append(rows,
		emailRow{Label: "Form Source", Value: inquiry.SourceTag},
		emailRow{Label: "Submitted From", Value: valueOrUnknown(inquiry.Referrer)},
		emailRow{Label: "IP", Value: valueOrUnknown(inquiry.ClientIP)},
		emailRow{Label: "User Agent", Value: valueOrUnknown(inquiry.UserAgent)},
	)

	return rows
}

func valueOrUnknown(value string) string {
	if value == "" {
		return "Unknown"
	}
	return value
}

// buildInquiryEmail renders the notification email: an HTML table of
// label/value rows plus a plaintext alternative, addressed to the fixed
// inquiry recipient. The visitor's email, when given, becomes the Reply-To.
func buildInquiryEmail(inquiry Inquiry, cfg *Config) mailer.Message {
	rows := inquiryEmailRows(inquiry)

	var htmlBody strings.Builder
	htmlBody.WriteString("<h2>New Website Inquiry</h2>")
	htmlBody.WriteString(`<table border="1" cellpadding="8" cellspacing="0" style="border-collapse:collapse;">`)
	for _, row := range rows {
		fmt.Fprintf(&htmlBody, "<tr><td><strong>%s</strong></td><td>%s</td></tr>", row.Label, row.Value)
	}
	htmlBody.WriteString("</table>")

	var textBody strings.Builder
	textBody.WriteString("New Website Inquiry\n\n")
	for _, row := range rows {
		fmt.Fprintf(&textBody, "%s: %s\n", row.Label, row.Value)
	}

	return mailer.Message{
		To:      []string{cfg.recipientHeader()},
		ReplyTo: inquiry.Contact.Email,
		Subject: inquirySubject(inquiry.Source),
		HTML:    htmlBody.String(),
		Text:    textBody.String(),
	}
}
