package domain

// LeadRequest describes a lead-generation run: what kind of companies to
// target and how many contacts to produce.
type LeadRequest struct {
	Size           string `json:"size"`
	Niche          string `json:"niche"`
	NoOf           string `json:"no_of"`
	Designation    string `json:"designation"`
	GeospatialArea string `json:"geospatial_area"`
	Service        string `json:"service"`
	ModelChoice    string `json:"model_choice"`
}

// Lead is a single generated prospect with a ready-to-send outreach
// email.
type Lead struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// LeadResponse is the result of a lead-generation run.
type LeadResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	EmailsCount       int    `json:"emails_count"`
	Emails            []Lead `json:"emails"`
	ContactsFilePath  string `json:"contacts_file_path,omitempty"`
	CompaniesFilePath string `json:"companies_file_path,omitempty"`
}

// EmailData is one outgoing message in a send-emails batch.
type EmailData struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailRequest is the body of POST /api/send-emails.
type EmailRequest struct {
	SenderEmail    string      `json:"sender_email"`
	SenderPassword string      `json:"sender_password"`
	Emails         []EmailData `json:"emails"`
}

// EmailResult records the outcome for one recipient.
type EmailResult struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// EmailResponse summarizes a send-emails batch.
type EmailResponse struct {
	Success     bool          `json:"success"`
	Message     string        `json:"message"`
	SentCount   int           `json:"sent_count"`
	FailedCount int           `json:"failed_count"`
	Results     []EmailResult `json:"results"`
}

// VoiceCallRequest is the body of POST /api/voice-call.
type VoiceCallRequest struct {
	PhoneNumber  string `json:"phoneNumber"`
	SystemPrompt string `json:"systemPrompt"`
}

// VoiceCallResult describes a successfully initiated voice AI call.
type VoiceCallResult struct {
	Success           bool   `json:"success"`
	CallSID           string `json:"callSid"`
	DestinationNumber string `json:"destinationNumber"`
	FromNumber        string `json:"fromNumber"`
	UltravoxJoinURL   string `json:"ultravoxJoinUrl"`
	Timestamp         string `json:"timestamp"`
}
