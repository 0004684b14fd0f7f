package main

import (
	"errors"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Source tags appended by the browser-side form submitter.
const (
	sourceTagFooter = "footer_form"
	sourceTagPopup  = "schedule_popup"
)

// InquirySource identifies which of the two site forms produced a submission.
type InquirySource string

const (
	SourceFooter InquirySource = "footer"
	SourcePopup  InquirySource = "popup"
)

// InquiryContact is the payload shape shared by both form variants.
type InquiryContact struct {
	Name  string
	Phone string
	Email string // optional; becomes the Reply-To of the outbound email
}

// Inquiry is one contact-form submission, tagged with its originating form.
// It lives for a single request: parsed from the POST body, turned into one
// outbound email, then discarded.
type Inquiry struct {
	ID        string
	Source    InquirySource
	SourceTag string // raw form_source value as submitted, "unknown" when absent
	Contact   InquiryContact
	Referrer  string
	ClientIP  string
	UserAgent string
}

type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string { return e.Message }

// writeInquiryError renders any failure as the JSON envelope the form
// submitter expects: success is always present and false.
func writeInquiryError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"success": false, "error": apiErr.Code, "message": apiErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "server_error",
		"message": "Server error: " + err.Error(),
	})
}

// sanitizeField trims and HTML-escapes a submitted value. Every textual field
// is escaped before use because it is echoed into the HTML email body.
func sanitizeField(c *gin.Context, key string) string {
	return html.EscapeString(strings.TrimSpace(c.PostForm(key)))
}

// detectSource resolves which form variant produced the submission. The
// explicit form_source tag is authoritative when it names a known form;
// field presence only decides when the tag is absent or unrecognized.
func detectSource(tag string, footer, popup InquiryContact) (InquirySource, bool) {
	switch tag {
	case sourceTagFooter:
		return SourceFooter, true
	case sourceTagPopup:
		return SourcePopup, true
	}
	if footer.Name != "" || footer.Phone != "" || footer.Email != "" {
		return SourceFooter, true
	}
	if popup.Name != "" || popup.Phone != "" || popup.Email != "" {
		return SourcePopup, true
	}
	return "", false
}

func validateInquiryContact(source InquirySource, contact InquiryContact) error {
	if contact.Name != "" && contact.Phone != "" {
		return nil
	}
	message := "Name and phone are required."
	if source == SourceFooter {
		message = "Full name and phone are required."
	}
	return &apiError{Status: http.StatusUnprocessableEntity, Code: "missing_required_fields", Message: message}
}

// parseInquiry extracts and validates an Inquiry from the request. It accepts
// form-encoded and multipart bodies; missing keys default to empty strings.
func parseInquiry(c *gin.Context) (Inquiry, error) {
	footer := InquiryContact{
		Name:  sanitizeField(c, "fullName"),
		Phone: sanitizeField(c, "phoneNumber"),
		Email: sanitizeField(c, "emailAddress"),
	}
	popup := InquiryContact{
		Name:  sanitizeField(c, "name"),
		Phone: sanitizeField(c, "phone"),
		Email: sanitizeField(c, "email"),
	}

	sourceTag := sanitizeField(c, "form_source")

	source, ok := detectSource(sourceTag, footer, popup)
	if !ok {
		return Inquiry{}, &apiError{Status: http.StatusBadRequest, Code: "no_form_data", Message: "No valid form data received"}
	}

	contact := footer
	if source == SourcePopup {
		contact = popup
	}

	if err := validateInquiryContact(source, contact); err != nil {
		return Inquiry{}, err
	}

	if sourceTag == "" {
		sourceTag = "unknown"
	}

	return Inquiry{
		ID:        uuid.New().String(),
		Source:    source,
		SourceTag: sourceTag,
		Contact:   contact,
		Referrer:  html.EscapeString(strings.TrimSpace(c.GetHeader("Referer"))),
		ClientIP:  c.ClientIP(),
		UserAgent: html.EscapeString(strings.TrimSpace(c.GetHeader("User-Agent"))),
	}, nil
}

// createInquiryHandler is the mail relay endpoint: one inquiry in, one
// synchronous email out. Each gate either proceeds or returns a final
// response; nothing is retried or queued.
func (a *App) createInquiryHandler(c *gin.Context) {
	if a.mailer == nil || a.cfg.RecipientEmail == "" {
		writeInquiryError(c, &apiError{
			Status:  http.StatusInternalServerError,
			Code:    "mailer_unavailable",
			Message: "Mail delivery is not configured on this server",
		})
		return
	}

	inquiry, err := parseInquiry(c)
	if err != nil {
		writeInquiryError(c, err)
		return
	}

	msg := buildInquiryEmail(inquiry, a.cfg)

	result, err := a.mailer.Send(msg)
	if err != nil {
		a.log.Error("inquiry email send failed",
			"inquiry_id", inquiry.ID,
			"source", inquiry.Source,
			"provider", a.mailer.ProviderName(),
			"err", err,
		)
		writeInquiryError(c, &apiError{
			Status:  http.StatusInternalServerError,
			Code:    "mailer_error",
			Message: "Mailer error: " + err.Error(),
		})
		return
	}

	a.log.Info("inquiry relayed",
		"inquiry_id", inquiry.ID,
		"source", inquiry.Source,
		"provider", a.mailer.ProviderName(),
		"message_id", result.ProviderMessageID,
	)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email sent"})
}
