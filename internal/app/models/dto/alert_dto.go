package dto

// AlertResult reports a low-credit sweep. Sent plus Failed equals the number of students attempted.
type AlertResult struct {
	Message string `json:"message" example:"Alerts process completed"`
	Sent    int    `json:"sent" example:"12"`
	Failed  int    `json:"failed" example:"1"`
}

// CreditsResponse is a student's current credit standing
type CreditsResponse struct {
	Credits   float64 `json:"credits" example:"2.5"`
	Threshold float64 `json:"threshold" example:"3"`
	Low       bool    `json:"low" example:"true"`
}

// CreditCheckResponse reports a student's self-check
type CreditCheckResponse struct {
	Message   string  `json:"message" example:"Credit check completed"`
	Credits   float64 `json:"credits" example:"2.5"`
	AlertSent bool    `json:"alertSent" example:"true"`
}
