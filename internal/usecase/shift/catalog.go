package shift

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

// Catalog is the wage catalog file:
//
//	[[roles]]
//	name = "security"
//	hourly_wage = 15.0
//
//	[[people]]
//	name = "Anna"
//	hourly_wage = 18.0
//
//	[export]
//	folder_prefix = "archive/events"
type Catalog struct {
	Roles  []CatalogRole   `toml:"roles"`
	People []CatalogPerson `toml:"people"`
	Export CatalogExport   `toml:"export"`
}

type CatalogExport struct {
	FolderPrefix string `toml:"folder_prefix"`
}

type CatalogRole struct {
	Name       string  `toml:"name"`
	HourlyWage float64 `toml:"hourly_wage"`
	SortOrder  int     `toml:"sort_order"`
}

type CatalogPerson struct {
	Name       string  `toml:"name"`
	HourlyWage float64 `toml:"hourly_wage"`
}

type CatalogImportResult struct {
	Roles        int    `json:"roles"`
	People       int    `json:"people"`
	FolderPrefix string `json:"folder_prefix,omitempty"`
}

func LoadCatalogFile(catalogFile string) (Catalog, error) {
	path := strings.TrimSpace(catalogFile)
	if path == "" {
		return Catalog{}, errors.New("catalog file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, errs.Wrapf(err, "read catalog %q", path)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (Catalog, error) {
	var catalog Catalog
	if err := toml.Unmarshal(raw, &catalog); err != nil {
		return Catalog{}, errs.Wrap(err, "decode catalog")
	}
	if err := validateCatalog(catalog); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

func validateCatalog(catalog Catalog) error {
	for i, role := range catalog.Roles {
		if strings.TrimSpace(role.Name) == "" {
			return fmt.Errorf("roles[%d].name is required", i)
		}
		if !validWage(role.HourlyWage) {
			return fmt.Errorf("roles[%d].hourly_wage must be a non-negative number", i)
		}
	}
	for i, person := range catalog.People {
		if strings.TrimSpace(person.Name) == "" {
			return fmt.Errorf("people[%d].name is required", i)
		}
		if !validWage(person.HourlyWage) {
			return fmt.Errorf("people[%d].hourly_wage must be a non-negative number", i)
		}
	}
	if prefix := strings.TrimSpace(catalog.Export.FolderPrefix); prefix != "" {
		if _, ok := cleanRelativeDir(prefix); !ok {
			return fmt.Errorf("export.folder_prefix %q must stay inside the storage root", prefix)
		}
	}
	return nil
}

func validWage(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ImportCatalog upserts roles and person overrides in one transaction.
func (s *Service) ImportCatalog(ctx context.Context, catalog Catalog) (CatalogImportResult, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return CatalogImportResult{}, err
	}
	if err := s.requireStore(); err != nil {
		return CatalogImportResult{}, err
	}
	if err := validateCatalog(catalog); err != nil {
		return CatalogImportResult{}, err
	}

	now := nowUTCString()
	prefix, _ := cleanRelativeDir(catalog.Export.FolderPrefix)
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for _, role := range catalog.Roles {
			if err := s.repo.UpsertRole(txCtx, ports.Role{
				Name:       strings.TrimSpace(role.Name),
				HourlyWage: role.HourlyWage,
				SortOrder:  role.SortOrder,
			}); err != nil {
				return err
			}
		}
		for _, person := range catalog.People {
			if err := s.repo.UpsertPersonWage(txCtx, ports.PersonWage{
				NameKey:     domainshift.NormalizePersonName(person.Name),
				DisplayName: strings.TrimSpace(person.Name),
				HourlyWage:  person.HourlyWage,
				UpdatedAt:   now,
			}); err != nil {
				return err
			}
		}
		if prefix != "" {
			value, err := json.Marshal(prefix)
			if err != nil {
				return err
			}
			if err := s.repo.PutSetting(txCtx, settingExportFolderPrefix, value, now); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return CatalogImportResult{}, errs.Wrap(err, "import catalog")
	}

	return CatalogImportResult{
		Roles:        len(catalog.Roles),
		People:       len(catalog.People),
		FolderPrefix: prefix,
	}, nil
}
