package cqrs

// ---------- User queries ----------

// GetUserQuery fetches a single user by ID.
type GetUserQuery struct {
	UserID int64
}

// GetUserByEmailQuery fetches a single user by exact email match.
type GetUserByEmailQuery struct {
	Email string
}

// ListUsersByRoleQuery fetches every user holding the role.
type ListUsersByRoleQuery struct {
	Role string
}

// ---------- Account queries ----------

// GetAccountQuery fetches a single account by ID.
type GetAccountQuery struct {
	AccountID int64
}

// GetAccountByNumberQuery fetches a single account by account number.
type GetAccountByNumberQuery struct {
	AccountNumber string
}

// ListAccountsQuery fetches all accounts belonging to a user.
type ListAccountsQuery struct {
	UserID int64
}
