package models

// BackupSchemaVersion is bumped whenever a table or column is added to the dump.
const BackupSchemaVersion = 1

// BackupData is the full JSON dump used for export and restore.
type BackupData struct {
	SchemaVersion int                 `json:"schemaVersion"`
	ExportedAt    string              `json:"exportedAt"`
	Users         []BackupUser        `json:"users"`
	Drivers       []Driver            `json:"drivers"`
	Vehicles      []Vehicle           `json:"vehicles"`
	Routes        []Route             `json:"routes"`
	Agencies      []Agency            `json:"agencies"`
	Clients       []Client            `json:"clients"`
	Suppliers     []Supplier          `json:"suppliers"`
	RouteCash     []RouteCash         `json:"routeCash"`
	AgencyCash    []AgencyCash        `json:"agencyCash"`
	FuelEntries   []FuelEntry         `json:"fuelEntries"`
	Expenses      []GeneralExpense    `json:"expenses"`
	Payables      []Payable           `json:"payables"`
	Tourism       []TourismService    `json:"tourism"`
	DriverLedger  []DriverLedgerEntry `json:"driverLedger"`
	DailyCloses   []DailyClose        `json:"dailyCloses"`
	AuditLogs     []AuditLog          `json:"auditLogs"`
}

// Counts reports the number of rows per table, used in logs and the import audit row.
func (b BackupData) Counts() map[string]int {
	return map[string]int{
		"users":         len(b.Users),
		"drivers":       len(b.Drivers),
		"vehicles":      len(b.Vehicles),
		"routes":        len(b.Routes),
		"agencies":      len(b.Agencies),
		"clients":       len(b.Clients),
		"suppliers":     len(b.Suppliers),
		"route_cash":    len(b.RouteCash),
		"agency_cash":   len(b.AgencyCash),
		"fuel_entries":  len(b.FuelEntries),
		"expenses":      len(b.Expenses),
		"payables":      len(b.Payables),
		"tourism":       len(b.Tourism),
		"driver_ledger": len(b.DriverLedger),
		"daily_closes":  len(b.DailyCloses),
		"audit_logs":    len(b.AuditLogs),
	}
}
