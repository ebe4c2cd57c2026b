package httpapi

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/wallet/internal/server/models"
)

// transactionDateLayout is the wire format for transaction dates. RFC 3339
// timestamps are accepted on input for client convenience.
const transactionDateLayout = "2006-01-02"

func parseTransactionDate(s string) (time.Time, bool) {
	if d, err := time.Parse(transactionDateLayout, s); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// --- requests ---

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *signUpRequest) validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Username) == "" {
		fields["username"] = "must not be blank"
	}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "must not be blank"
	} else if !strings.Contains(req.Email, "@") {
		fields["email"] = "must be a valid email address"
	}
	if req.Password == "" {
		fields["password"] = "must not be empty"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type createSpaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}

func (req *createSpaceRequest) validate() map[string]string {
	fields := validateSpaceName(req.Name)
	if len(req.Currency) != 3 {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["currency"] = "must be a 3-letter code"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type updateSpaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func validateSpaceName(name string) map[string]string {
	if strings.TrimSpace(name) == "" {
		return map[string]string{"name": "must not be blank"}
	}
	if len(name) > 100 {
		return map[string]string{"name": "must be at most 100 characters"}
	}
	return nil
}

type createTransactionRequest struct {
	SpaceID         string          `json:"spaceId"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate string          `json:"transactionDate"`
	Description     string          `json:"description"`
}

func (req *createTransactionRequest) validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.SpaceID) == "" {
		fields["spaceId"] = "must not be blank"
	}
	if !models.TransactionType(req.Type).Valid() {
		fields["type"] = "must be one of INCOME, EXPENSE, TRANSFER"
	}
	if req.Amount.IsNegative() {
		fields["amount"] = "must not be negative"
	}
	if _, ok := parseTransactionDate(req.TransactionDate); !ok {
		fields["transactionDate"] = "must be a YYYY-MM-DD date"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type updateTransactionRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate string          `json:"transactionDate"`
	Description     string          `json:"description"`
}

func (req *updateTransactionRequest) validate() map[string]string {
	fields := map[string]string{}
	if req.Amount.IsNegative() {
		fields["amount"] = "must not be negative"
	}
	if _, ok := parseTransactionDate(req.TransactionDate); !ok {
		fields["transactionDate"] = "must be a YYYY-MM-DD date"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// --- responses ---

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type spaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toSpaceResponse(sp *models.Space) spaceResponse {
	return spaceResponse{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		Currency:    sp.Currency,
		CreatedAt:   sp.CreatedAt,
		UpdatedAt:   sp.UpdatedAt,
	}
}

func toSpaceResponses(spaces []*models.Space) []spaceResponse {
	out := make([]spaceResponse, 0, len(spaces))
	for _, sp := range spaces {
		out = append(out, toSpaceResponse(sp))
	}
	return out
}

type transactionResponse struct {
	ID              string          `json:"id"`
	SpaceID         string          `json:"spaceId"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate string          `json:"transactionDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func toTransactionResponse(tr *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:              tr.ID,
		SpaceID:         tr.SpaceID,
		Type:            string(tr.Type),
		Amount:          tr.Amount,
		Description:     tr.Description,
		TransactionDate: tr.TransactionDate.Format(transactionDateLayout),
		CreatedAt:       tr.CreatedAt,
		UpdatedAt:       tr.UpdatedAt,
	}
}

func toTransactionResponses(list []*models.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(list))
	for _, tr := range list {
		out = append(out, toTransactionResponse(tr))
	}
	return out
}
