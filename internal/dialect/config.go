package dialect

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// configFile is the shape of a dialect-override YAML file:
//
//	dialects:
//	  - key: somebank
//	    bankName: Some Bank
//	    indicators: ["SOME BANK"]
//	    datePatterns: ['\d{2}/\d{2}/\d{4}']
//	    pageStartPattern: '^--- Page (\d+) ---$'
//	    amountColumns: 2
//	    reconcile: corrective
type configFile struct {
	Dialects []Descriptor `yaml:"dialects"`
}

// LoadFile reads descriptor definitions from a YAML file and registers
// them, overriding built-ins with the same key.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dialect config %q: %w", path, err)
	}
	return r.LoadYAML(data)
}

// LoadYAML parses descriptor definitions from YAML bytes and registers
// them.
func (r *Registry) LoadYAML(data []byte) error {
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse dialect config: %w", err)
	}
	if len(cfg.Dialects) == 0 {
		return fmt.Errorf("dialect config defines no dialects")
	}
	for _, desc := range cfg.Dialects {
		d, err := Compile(desc)
		if err != nil {
			return err
		}
		r.Add(d)
	}
	return nil
}
