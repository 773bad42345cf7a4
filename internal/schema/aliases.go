package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// aliasFile is the on-disk shape of an alias extension file:
//
//	aliases:
//	  Consignment number:
//	    - consignment ref
//	  Scan/Upload status:
//	    - scanning status
//
// Keys may be canonical names in any spelling; they are normalized before the
// merge so the file never has to care about case or spacing.
type aliasFile struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// LoadAliasFile reads a YAML alias extension file and merges it over the
// built-in table. File entries are appended after the built-ins so curated
// aliases keep priority. An empty path returns the defaults unchanged.
func LoadAliasFile(path string) (AliasTable, error) {
	table := DefaultAliases()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse alias file %s: %w", path, err)
	}

	for field, extras := range f.Aliases {
		key := Normalize(field)
		if key == "" {
			continue
		}
		table[key] = append(table[key], extras...)
	}
	return table, nil
}
