package models

// Driver is a registered bus driver.
type Driver struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Document      string `json:"document"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"licenseNumber" yaml:"licenseNumber"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// Vehicle is a fleet bus; Code is the internal prefix painted on the body.
type Vehicle struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Plate     string `json:"plate"`
	Model     string `json:"model"`
	Seats     int    `json:"seats"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Route struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Agency sells tickets on commission. CommissionPercent is the current rate;
// cash rows keep their own copy taken when they were saved.
type Agency struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Document          string  `json:"document"`
	Contact           string  `json:"contact"`
	Phone             string  `json:"phone"`
	CommissionPercent Decimal `json:"commissionPercent"`
	Active            bool    `json:"active"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

type Client struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Document  string `json:"document"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Supplier struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Document  string `json:"document"`
	Category  string `json:"category"`
	Phone     string `json:"phone"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
