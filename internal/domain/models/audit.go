package models

import "encoding/json"

const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
	AuditClose  = "close"
	AuditReopen = "reopen"
	AuditImport = "import"
	AuditLogin  = "login"
	AuditPay    = "pay"
)

type AuditLog struct {
	ID       int64           `json:"id"`
	At       string          `json:"at"`
	UserID   int64           `json:"userId"`
	Username string          `json:"username"`
	Action   string          `json:"action"`
	Entity   string          `json:"entity"`
	EntityID int64           `json:"entityId"`
	Before   json.RawMessage `json:"before,omitempty"`
	After    json.RawMessage `json:"after,omitempty"`
}

type AuditFilter struct {
	Entity   string
	EntityID int64
	Action   string
	Start    string
	End      string
	Limit    int
}
