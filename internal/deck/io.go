package deck

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Write writes a deck to a YAML file.
func Write(d *Deck, path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read reads and validates a deck from a YAML file.
func Read(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}
