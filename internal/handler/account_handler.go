package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/cqrs"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/middleware"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
	"github.com/shopspring/decimal"
)

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	CreateAccount(context.Context, cqrs.CreateAccountCommand) (*models.Account, error)
	CreateAccountForUser(context.Context, int64, cqrs.CreateAccountCommand) (*models.Account, error)
	UpdateAccount(context.Context, cqrs.UpdateAccountCommand) (*models.Account, error)
	DeleteAccount(context.Context, cqrs.DeleteAccountCommand) (bool, error)
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetAccount(context.Context, cqrs.GetAccountQuery) (*models.Account, error)
	GetAccountByNumber(context.Context, cqrs.GetAccountByNumberQuery) (*models.Account, error)
	ListAllAccounts(context.Context) ([]models.Account, error)
	ListAccounts(context.Context, cqrs.ListAccountsQuery) ([]models.Account, error)
	IsAccountNumberExists(context.Context, cqrs.GetAccountByNumberQuery) (bool, error)
}

// UserChecker is used to reject accounts for unknown owners.
type UserChecker interface {
	ExistsByID(context.Context, cqrs.GetUserQuery) bool
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
	users    UserChecker
	logger   *slog.Logger
}

type CreateAccountRequest struct {
	AccountNumber  string           `json:"accountNumber" validate:"omitempty,max=50"`
	AccountType    string           `json:"accountType" validate:"required,max=50"`
	Balance        decimal.Decimal  `json:"balance"`
	CurrencyCode   string           `json:"currencyCode" validate:"required,max=10"`
	Status         string           `json:"status" validate:"omitempty,max=50"`
	CreationDate   models.Timestamp `json:"creationDate"`
	InterestRate   decimal.Decimal  `json:"interestRate"`
	OverdraftLimit decimal.Decimal  `json:"overdraftLimit"`
	UserID         int64            `json:"userId" validate:"required,gt=0"`
	BranchID       *int64           `json:"branchId"`
}

// UpdateAccountRequest is a patch: absent fields stay untouched and an
// explicit null only clears branchId. accountId and creationDate are ignored.
type UpdateAccountRequest struct {
	AccountNumber  models.Optional[string]          `json:"accountNumber"`
	AccountType    models.Optional[string]          `json:"accountType"`
	Balance        models.Optional[decimal.Decimal] `json:"balance"`
	CurrencyCode   models.Optional[string]          `json:"currencyCode"`
	Status         models.Optional[string]          `json:"status"`
	InterestRate   models.Optional[decimal.Decimal] `json:"interestRate"`
	OverdraftLimit models.Optional[decimal.Decimal] `json:"overdraftLimit"`
	UserID         models.Optional[int64]           `json:"userId"`
	BranchID       models.Optional[int64]           `json:"branchId"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier, users UserChecker, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries, users: users, logger: logger}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.CreateAccount(c.Request.Context(), req.command())
	if err != nil {
		respondError(c, h.logger, err, "Account not found", "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, account)
}

// CreateAccountForUser creates an account owned by the user in the path.
func (h *AccountHandler) CreateAccountForUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if !h.users.ExistsByID(c.Request.Context(), cqrs.GetUserQuery{UserID: userID}) {
		middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = userID
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.CreateAccountForUser(c.Request.Context(), userID, req.command())
	if err != nil {
		respondError(c, h.logger, err, "User not found", "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) ListAllAccounts(c *gin.Context) {
	accounts, err := h.queries.ListAllAccounts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Account not found", "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) ListAccountsByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	accounts, err := h.queries.ListAccounts(c.Request.Context(), cqrs.ListAccountsQuery{UserID: userID})
	if err != nil {
		respondError(c, h.logger, err, "Account not found", "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	accountID, ok := pathID(c, "accountId")
	if !ok {
		return
	}
	account, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{AccountID: accountID})
	if err != nil {
		respondError(c, h.logger, err, "Account not found", "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) GetAccountByNumber(c *gin.Context) {
	q := cqrs.GetAccountByNumberQuery{AccountNumber: c.Param("accountNumber")}
	account, err := h.queries.GetAccountByNumber(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.logger, err, "Account not found", "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) AccountNumberExists(c *gin.Context) {
	q := cqrs.GetAccountByNumberQuery{AccountNumber: c.Param("accountNumber")}
	exists, err := h.queries.IsAccountNumberExists(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.logger, err, "Account not found", "Failed to check account number")
		return
	}
	c.JSON(http.StatusOK, ExistsResponse{Exists: exists})
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	accountID, ok := pathID(c, "accountId")
	if !ok {
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := req.validate(); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.UpdateAccount(c.Request.Context(), cqrs.UpdateAccountCommand{
		AccountID:      accountID,
		AccountNumber:  req.AccountNumber,
		AccountType:    req.AccountType,
		Balance:        req.Balance,
		CurrencyCode:   req.CurrencyCode,
		Status:         req.Status,
		InterestRate:   req.InterestRate,
		OverdraftLimit: req.OverdraftLimit,
		UserID:         req.UserID,
		BranchID:       req.BranchID,
	})
	if err != nil {
		respondError(c, h.logger, err, "Account not found", "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	accountID, ok := pathID(c, "accountId")
	if !ok {
		return
	}

	deleted, err := h.commands.DeleteAccount(c.Request.Context(), cqrs.DeleteAccountCommand{AccountID: accountID})
	if err != nil {
		respondError(c, h.logger, err, "Account not found", "Failed to delete account")
		return
	}
	if !deleted {
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	c.Status(http.StatusNoContent)
}

func (r CreateAccountRequest) command() cqrs.CreateAccountCommand {
	return cqrs.CreateAccountCommand{
		AccountNumber:  r.AccountNumber,
		AccountType:    r.AccountType,
		Balance:        r.Balance,
		CurrencyCode:   r.CurrencyCode,
		Status:         r.Status,
		CreationDate:   r.CreationDate,
		InterestRate:   r.InterestRate,
		OverdraftLimit: r.OverdraftLimit,
		UserID:         r.UserID,
		BranchID:       r.BranchID,
	}
}

func (r UpdateAccountRequest) validate() []middleware.ValidationError {
	var out []middleware.ValidationError
	if r.AccountNumber.Present() {
		out = append(out, middleware.ValidateVar("accountNumber", r.AccountNumber.Value, "required,max=50")...)
	}
	if r.AccountType.Present() {
		out = append(out, middleware.ValidateVar("accountType", r.AccountType.Value, "required,max=50")...)
	}
	if r.CurrencyCode.Present() {
		out = append(out, middleware.ValidateVar("currencyCode", r.CurrencyCode.Value, "required,max=10")...)
	}
	if r.UserID.Present() {
		out = append(out, middleware.ValidateVar("userId", r.UserID.Value, "gt=0")...)
	}
	return out
}
