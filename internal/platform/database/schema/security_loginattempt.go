package schema

// SecurityLoginAttemptTable represents the 'security.login_attempt' table
type SecurityLoginAttemptTable struct {
	Table      string
	ID         string
	Identifier string
	ActionType string
	IPAddress  string
	Success    string
	UserAgent  string
	CreatedAt  string
}

// SecurityLoginAttempt is the schema definition for security.login_attempt
var SecurityLoginAttempt = SecurityLoginAttemptTable{
	Table:      "security.login_attempt",
	ID:         "id",
	Identifier: "identifier",
	ActionType: "actiontype",
	IPAddress:  "ipaddress",
	Success:    "success",
	UserAgent:  "useragent",
	CreatedAt:  "createdat",
}

// Columns returns all standard column names
func (t SecurityLoginAttemptTable) Columns() []string {
	return []string{
		t.ID, t.Identifier, t.ActionType, t.IPAddress,
		t.Success, t.UserAgent, t.CreatedAt,
	}
}
