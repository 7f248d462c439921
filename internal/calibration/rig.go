package calibration

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rig is one named lighting rig's calibration: its max-lux spec and the
// default illuminance target driven against it
type Rig struct {
	MaxLux    string  `yaml:"max_lux"`
	TargetLux float64 `yaml:"target_lux"`
}

// File is a YAML rig calibration document:
//
//	rigs:
//	  living_room:
//	    max_lux: "2700:8000,5600:10000,6500:9000"
//	    target_lux: 450
type File struct {
	Rigs map[string]Rig `yaml:"rigs"`
}

// LoadFile reads and parses a rig calibration file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse calibration file %s: %w", path, err)
	}
	return &f, nil
}

// Rig returns the calibration for a named rig
func (f *File) Rig(name string) (Rig, bool) {
	rig, ok := f.Rigs[name]
	return rig, ok
}
