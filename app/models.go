package main

type Affiliate struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Location    string `json:"location"`
	Language    string `json:"language"`
	UniqueLink  string `json:"unique_link"`
	OnemoveLink string `json:"onemove_link"`
	PuprimeLink string `json:"puprime_link"`
	CreatedAt   string `json:"created_at"`
}

type PendingRequest struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Location  string `json:"location"`
	Language  string `json:"language"`
	CreatedAt string `json:"created_at"`
}

type Referral struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name"`
	Headline  string `json:"headline"`
	Email     string `json:"email"`
	Location  string `json:"location"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
}

type AccountStatus struct {
	Status         string  `json:"status"`
	TotalReferrals int     `json:"total_referrals"`
	Earnings       float64 `json:"earnings"`
	CommissionRate float64 `json:"commission_rate"`
	JoinedAt       string  `json:"joined_at"`
}

type registrationForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Location    string `json:"location"`
	Language    string `json:"language"`
	OnemoveLink string `json:"onemove_link"`
	PuprimeLink string `json:"puprime_link"`
}

// reviewDecision is the admin/review-request payload.
type reviewDecision struct {
	RequestID int64  `json:"request_id"`
	Approve   bool   `json:"approve"`
	Reason    string `json:"reason"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Detail      string `json:"detail"`
}

// apiMessage covers the error body variants the backend returns.
type apiMessage struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (m apiMessage) text() string {
	switch {
	case m.Detail != "":
		return m.Detail
	case m.Message != "":
		return m.Message
	default:
		return m.Error
	}
}
