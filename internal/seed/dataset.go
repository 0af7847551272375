package seed

import (
	"fmt"
	"os"
	"time"

	"openeyes/internal/models"

	"gopkg.in/yaml.v3"
)

// Dataset is a curated set of records loaded from a YAML file. Unlike the
// generated data it survives re-seeding unchanged, so demos and frontend
// fixtures can rely on stable names.
type Dataset struct {
	Countries []struct {
		Name        string `yaml:"name"`
		Population  int64  `yaml:"population"`
		IsDemocracy bool   `yaml:"is_democracy"`
		President   string `yaml:"president"`
		FlagEmoji   string `yaml:"flag_emoji"`
	} `yaml:"countries"`
	Conflicts []struct {
		Name            string  `yaml:"name"`
		Region          string  `yaml:"region"`
		Status          string  `yaml:"status"`
		Severity        string  `yaml:"severity"`
		StartDate       string  `yaml:"start_date"`
		Casualties      int     `yaml:"casualties"`
		InvolvedParties string  `yaml:"involved_parties"`
		Lat             float64 `yaml:"lat"`
		Lon             float64 `yaml:"lon"`
	} `yaml:"conflicts"`
	Disasters []struct {
		Name       string  `yaml:"name"`
		Type       string  `yaml:"type"`
		Date       string  `yaml:"date"`
		Location   string  `yaml:"location"`
		Casualties int     `yaml:"casualties"`
		Magnitude  float64 `yaml:"magnitude"`
	} `yaml:"disasters"`
}

// LoadDataset reads and parses a curated dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return &ds, nil
}

// ApplyDataset inserts the curated records, skipping entries that already
// exist by name.
func (s *Seeder) ApplyDataset(ds *Dataset) error {
	for _, c := range ds.Countries {
		country := models.Country{
			Name:        c.Name,
			Population:  c.Population,
			IsDemocracy: c.IsDemocracy,
			President:   c.President,
			FlagEmoji:   c.FlagEmoji,
		}
		if err := s.db.Where("name = ?", c.Name).FirstOrCreate(&country).Error; err != nil {
			return fmt.Errorf("dataset country %q: %w", c.Name, err)
		}
	}

	for _, c := range ds.Conflicts {
		start, err := parseDatasetDate(c.StartDate)
		if err != nil {
			return fmt.Errorf("dataset conflict %q: %w", c.Name, err)
		}
		conflict := models.Conflict{
			Name:            c.Name,
			Region:          c.Region,
			Status:          models.ConflictStatus(c.Status),
			Severity:        models.Severity(c.Severity),
			StartDate:       start,
			Casualties:      c.Casualties,
			InvolvedParties: c.InvolvedParties,
		}
		if c.Lat != 0 || c.Lon != 0 {
			lat, lon := c.Lat, c.Lon
			conflict.Lat = &lat
			conflict.Lon = &lon
		}
		if err := s.db.Where("name = ?", c.Name).FirstOrCreate(&conflict).Error; err != nil {
			return fmt.Errorf("dataset conflict %q: %w", c.Name, err)
		}
	}

	for _, d := range ds.Disasters {
		date, err := parseDatasetDate(d.Date)
		if err != nil {
			return fmt.Errorf("dataset disaster %q: %w", d.Name, err)
		}
		disaster := models.NaturalDisaster{
			Name:       d.Name,
			Type:       d.Type,
			Date:       date,
			Location:   d.Location,
			Casualties: d.Casualties,
		}
		if d.Magnitude != 0 {
			magnitude := d.Magnitude
			disaster.Magnitude = &magnitude
		}
		if err := s.db.Where("name = ?", d.Name).FirstOrCreate(&disaster).Error; err != nil {
			return fmt.Errorf("dataset disaster %q: %w", d.Name, err)
		}
	}

	return nil
}

func parseDatasetDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}
