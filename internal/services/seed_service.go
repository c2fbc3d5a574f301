package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/utils"
)

// SeedFile is the YAML document accepted by `fleetfin seed`.
type SeedFile struct {
	Drivers   []models.Driver   `yaml:"drivers"`
	Vehicles  []models.Vehicle  `yaml:"vehicles"`
	Routes    []models.Route    `yaml:"routes"`
	Agencies  []SeedAgency      `yaml:"agencies"`
	Clients   []models.Client   `yaml:"clients"`
	Suppliers []models.Supplier `yaml:"suppliers"`
	Users     []UserInput       `yaml:"users"`
}

// SeedAgency keeps the commission as text so YAML floats never reach a decimal.
type SeedAgency struct {
	Name       string `yaml:"name"`
	Document   string `yaml:"document"`
	Contact    string `yaml:"contact"`
	Phone      string `yaml:"phone"`
	Commission string `yaml:"commission"`
}

// ParseSeed decodes a seed document. Unknown keys are rejected.
func ParseSeed(r io.Reader) (SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return f, domain.ValidationError{Field: "seed", Msg: "invalid YAML document", Err: err}
	}
	return f, nil
}

// SeedService loads registry fixtures through the regular services so every
// row is validated and audited.
type SeedService struct {
	DB *sql.DB
}

// Load creates every entry of f and returns how many rows each kind got.
// Each row is its own transaction; the first failure stops the load.
func (s SeedService) Load(ctx context.Context, actor domain.Actor, f SeedFile) (map[string]int, error) {
	counts := map[string]int{}
	for i, d := range f.Drivers {
		if _, err := NewDriverService(s.DB).Create(ctx, actor, d); err != nil {
			return counts, fmt.Errorf("drivers[%d]: %w", i, err)
		}
		counts["drivers"]++
	}
	for i, v := range f.Vehicles {
		if _, err := NewVehicleService(s.DB).Create(ctx, actor, v); err != nil {
			return counts, fmt.Errorf("vehicles[%d]: %w", i, err)
		}
		counts["vehicles"]++
	}
	for i, r := range f.Routes {
		if _, err := NewRouteService(s.DB).Create(ctx, actor, r); err != nil {
			return counts, fmt.Errorf("routes[%d]: %w", i, err)
		}
		counts["routes"]++
	}
	for i, a := range f.Agencies {
		pct, err := utils.ParseMoney(utils.Fallback(a.Commission, "0"))
		if err != nil {
			return counts, fmt.Errorf("agencies[%d]: %w", i,
				domain.ValidationError{Field: "commission", Msg: "must be a number", Err: err})
		}
		ag := models.Agency{Name: a.Name, Document: a.Document, Contact: a.Contact, Phone: a.Phone, CommissionPercent: pct}
		if _, err := NewAgencyService(s.DB).Create(ctx, actor, ag); err != nil {
			return counts, fmt.Errorf("agencies[%d]: %w", i, err)
		}
		counts["agencies"]++
	}
	for i, c := range f.Clients {
		if _, err := NewClientService(s.DB).Create(ctx, actor, c); err != nil {
			return counts, fmt.Errorf("clients[%d]: %w", i, err)
		}
		counts["clients"]++
	}
	for i, sp := range f.Suppliers {
		if _, err := NewSupplierService(s.DB).Create(ctx, actor, sp); err != nil {
			return counts, fmt.Errorf("suppliers[%d]: %w", i, err)
		}
		counts["suppliers"]++
	}
	for i, u := range f.Users {
		if _, err := (UserService{DB: s.DB}).Create(ctx, actor, u); err != nil {
			return counts, fmt.Errorf("users[%d]: %w", i, err)
		}
		counts["users"]++
	}
	utils.LogEvent("", "seed", "load", "fixtures loaded", zap.Any("counts", counts))
	return counts, nil
}
