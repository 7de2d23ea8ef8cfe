// Package reference loads national parameter sets: carrier conversion
// factors, energy-class thresholds, and monthly climate series. Tables are
// external configuration so one process can evaluate audits under
// different national or annual parameter sets side by side; a Slovak
// default ships embedded.
package reference

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"energy_audit_backend/internal/classify"
	"energy_audit_backend/internal/energy"
	"energy_audit_backend/platform/apperr"
)

//go:embed tables/*.yaml
var embedded embed.FS

// TableSet is one complete national parameter set.
type TableSet struct {
	Name              string                                           `yaml:"name" json:"name"`
	Factors           classify.FactorTable                             `yaml:"factors" json:"factors"`
	Classes           map[classify.BuildingSubtype]classify.ClassTable `yaml:"classes" json:"classes"`
	Climate           energy.MonthlyClimate                            `yaml:"climate" json:"climate"`
	HeatingDegreeDays float64                                          `yaml:"heatingDegreeDays" json:"heatingDegreeDays"`
}

// ClassTables returns the subtype tables as the set classify consumes.
func (s *TableSet) ClassTables() classify.ClassTableSet {
	return classify.ClassTableSet(s.Classes)
}

// Validate checks the set is complete enough to run a full audit.
func (s *TableSet) Validate() error {
	if s.Name == "" {
		return apperr.Incomplete("table set has no name", []string{"name"})
	}
	if err := s.Factors.Validate(); err != nil {
		return err
	}
	if len(s.Classes) == 0 {
		return apperr.Incomplete("table set has no class tables", []string{"classes"})
	}
	for subtype, table := range s.Classes {
		if err := table.Validate(); err != nil {
			return fmt.Errorf("class table %s: %w", subtype, err)
		}
	}
	if err := s.Climate.Validate(); err != nil {
		return err
	}
	if s.HeatingDegreeDays <= 0 {
		return apperr.Validation(fmt.Sprintf("heating degree days must be positive, got %g", s.HeatingDegreeDays))
	}
	return nil
}

// Load reads the named table set from dir, falling back to the embedded
// copy when no external file exists. An external file that fails to parse
// or validate is an error, never silently replaced by the embedded one.
func Load(dir, name string) (*TableSet, error) {
	path := filepath.Join(dir, name+".yaml")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadEmbedded(name)
	}
	if err != nil {
		return nil, fmt.Errorf("read table set %s: %w", path, err)
	}
	return parse(data, path)
}

// LoadEmbedded returns a table set compiled into the binary.
func LoadEmbedded(name string) (*TableSet, error) {
	data, err := embedded.ReadFile("tables/" + name + ".yaml")
	if err != nil {
		return nil, apperr.NotFound(fmt.Sprintf("no embedded table set %q", name))
	}
	return parse(data, "embedded:"+name)
}

func parse(data []byte, source string) (*TableSet, error) {
	var set TableSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse table set %s: %w", source, err)
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("table set %s: %w", source, err)
	}
	return &set, nil
}
