package domain

const (
	MailWelcome       = "welcome"
	MailResetPassword = "reset_password"
	MailLeaveDecided  = "leave_decided"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type WelcomeMailData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type ResetPasswordMailData struct {
	Name       string `json:"name"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type LeaveDecidedMailData struct {
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
	Days      int         `json:"days"`
	Status    LeaveStatus `json:"status"`
}
