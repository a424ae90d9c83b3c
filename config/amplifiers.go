package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/invertome/hcr-prober/internal/prober"
)

// LoadAmplifiers merges every amplifier plugin (*.json) found in dir
// into one name → amplifier map. A file that fails to parse is skipped
// with a warning; loading zero amplifiers is an error because no
// probes can be formatted without one.
func LoadAmplifiers(dir string) (map[string]prober.Amplifier, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		return nil, fmt.Errorf("no amplifier plugins found in %s", dir)
	}

	amplifiers := make(map[string]prober.Amplifier)
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			logrus.Warnf("could not load amplifier plugin %s: %v", filepath.Base(path), err)
			continue
		}

		var batch map[string]prober.Amplifier
		if err := json.Unmarshal(raw, &batch); err != nil {
			logrus.Warnf("could not load amplifier plugin %s: %v", filepath.Base(path), err)
			continue
		}
		for name, amp := range batch {
			amplifiers[name] = amp
		}
	}

	if len(amplifiers) == 0 {
		return nil, fmt.Errorf("no amplifiers were loaded from %s", dir)
	}

	names := make([]string, 0, len(amplifiers))
	for name := range amplifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	logrus.Infof("loaded %d amplifiers: %s", len(amplifiers), strings.Join(names, ", "))

	return amplifiers, nil
}
