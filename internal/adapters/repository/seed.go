package repository

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/volunteerhub/beacon/internal/domain/model"
)

// seedFile mirrors the YAML fixture layout:
//
//	volunteers:
//	  - id: v1
//	    name: Ada
//	    skills: [spanish, cooking]
//	    location: Downtown
//	    availability: [Tuesday, Saturday]
//	events:
//	  - id: e1
//	    name: Food Drive
//	    requiredSkills: [cooking]
//	    location: Downtown
//	    date: 2026-09-01T10:00:00Z
//	    urgency: high
type seedFile struct {
	Volunteers []seedVolunteer `yaml:"volunteers"`
	Events     []seedEvent     `yaml:"events"`
}

type seedVolunteer struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Skills       []string `yaml:"skills"`
	Location     string   `yaml:"location"`
	Availability []string `yaml:"availability"`
}

type seedEvent struct {
	ID             string    `yaml:"id"`
	Name           string    `yaml:"name"`
	RequiredSkills []string  `yaml:"requiredSkills"`
	Location       string    `yaml:"location"`
	Date           time.Time `yaml:"date"`
	Urgency        string    `yaml:"urgency"`
}

// LoadSeed parses a YAML fixture and fills the directory and catalog. Used
// for standalone deployments where the surrounding profile/event services
// are not present.
func LoadSeed(path string, dir *MemoryDirectory, cat *MemoryCatalog) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("repository: read seed file: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return fmt.Errorf("repository: parse seed file: %w", err)
	}
	for _, sv := range sf.Volunteers {
		dir.Put(model.Volunteer{
			ID:           sv.ID,
			Name:         sv.Name,
			Skills:       sv.Skills,
			Location:     sv.Location,
			Availability: sv.Availability,
		})
	}
	for _, se := range sf.Events {
		cat.Put(model.Event{
			ID:             se.ID,
			Name:           se.Name,
			RequiredSkills: se.RequiredSkills,
			Location:       se.Location,
			Date:           se.Date,
			Urgency:        model.ParseUrgency(se.Urgency),
		})
	}
	return nil
}
