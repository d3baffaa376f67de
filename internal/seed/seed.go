// Package seed loads the startup dataset into the activity registry.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
)

//go:embed seed.yaml
var defaultSeed []byte

// Dataset is the on-disk seed format.
type Dataset struct {
	Activities []Activity `yaml:"activities"`
}

// Activity is one seeded activity with its initial roster.
type Activity struct {
	model.CreateActivityRequest `yaml:",inline"`
	Participants                []string `yaml:"participants"`
}

// Default returns the built-in dataset.
func Default() (*Dataset, error) {
	return Parse(defaultSeed)
}

// Load reads a dataset from path, falling back to the built-in dataset when
// path is empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML dataset. Unknown keys are rejected.
func Parse(data []byte) (*Dataset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return &ds, nil
}

// Validate checks every activity the same way the admin create endpoint does,
// plus name uniqueness and roster sanity.
func (d *Dataset) Validate() error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool, len(d.Activities))

	for i, a := range d.Activities {
		field := fmt.Sprintf("activities[%d]", i)

		name := strings.TrimSpace(a.Name)
		if name == "" {
			errs = errs.Append(field+".name", errors.New("is required"))
			continue
		}
		if seen[name] {
			errs = errs.Append(field+".name", fmt.Errorf("duplicate name %q", name))
			continue
		}
		seen[name] = true

		if a.MaxParticipants <= 0 {
			errs = errs.Append(field+".max_participants", errors.New("must be a positive integer"))
		}
		for j, p := range a.Participants {
			p = strings.TrimSpace(p)
			if p == "" {
				errs = errs.Append(fmt.Sprintf("%s.participants[%d]", field, j), errors.New("is empty"))
				continue
			}
			if err := criterio.StrEmail(p); err != nil {
				errs = errs.Append(fmt.Sprintf("%s.participants[%d]", field, j), err)
			}
		}
	}

	return errs.ToError()
}

// Apply inserts every activity of the dataset into reg and returns how many
// were added. Names and participant emails are trimmed the way the signup
// endpoint trims them.
func (d *Dataset) Apply(reg *repository.ActivityRegistry) (int, error) {
	for i, a := range d.Activities {
		a.Name = strings.TrimSpace(a.Name)
		roster := make([]string, len(a.Participants))
		for j, p := range a.Participants {
			roster[j] = strings.TrimSpace(p)
		}
		if _, err := reg.Seed(a.CreateActivityRequest, roster); err != nil {
			return i, fmt.Errorf("seed %q: %w", a.Name, err)
		}
	}
	return len(d.Activities), nil
}
