package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ChangeEmailMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type UnderstaffingAlertData struct {
	Date                 string `json:"date"`
	ShiftName            string `json:"shiftName"`
	EffectiveOfficers    int32  `json:"effectiveOfficers"`
	MinOfficers          int32  `json:"minOfficers"`
	EffectiveSupervisors int32  `json:"effectiveSupervisors"`
	MinSupervisors       int32  `json:"minSupervisors"`
}
