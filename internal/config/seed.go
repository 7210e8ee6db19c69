package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SeedCompany is one entry in an optional companies.yml placed next to the
// user config. Seeded companies are inserted on startup if their slug is not
// already in the database.
type SeedCompany struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	CareersURL  string `yaml:"careers_url"`
	PlatformKey string `yaml:"platform_key"`
}

type seedFile struct {
	Companies []SeedCompany `yaml:"companies"`
}

// LoadSeedCompanies reads companies.yml. A missing file is not an error;
// it just means nothing to seed.
func LoadSeedCompanies(path string) ([]SeedCompany, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var sf seedFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, err
	}
	return sf.Companies, nil
}
