package repository

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/repository/models"
)

type fileDashboard struct {
	models.Dashboard `yaml:",inline"`
	Gauges           []gauge.Definition `yaml:"gauges"`
}

type fileConfig struct {
	Dashboards []fileDashboard `yaml:"dashboards"`
}

// FileConfigStore serves dashboard configuration from a YAML document. It is
// read once at construction.
type FileConfigStore struct {
	dashboards []models.Dashboard
	gauges     map[string][]gauge.Definition
}

// LoadFileConfigStore reads path into a FileConfigStore.
func LoadFileConfigStore(path string) (*FileConfigStore, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gauge config: %w", err)
	}
	return ParseFileConfig(b)
}

// ParseFileConfig decodes a YAML dashboard document.
func ParseFileConfig(b []byte) (*FileConfigStore, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("decode gauge config: %w", err)
	}

	store := &FileConfigStore{gauges: make(map[string][]gauge.Definition)}
	for _, fd := range cfg.Dashboards {
		d := fd.Dashboard
		if d.ID == "" {
			return nil, fmt.Errorf("dashboard %q has no id", d.Name)
		}
		if d.Slug == "" {
			d.Slug = d.ID
		}
		d.IsActive = true
		store.dashboards = append(store.dashboards, d)

		defs := make([]gauge.Definition, 0, len(fd.Gauges))
		for _, def := range fd.Gauges {
			def.DashboardID = d.ID
			defs = append(defs, def)
		}
		sort.SliceStable(defs, func(i, j int) bool { return defs[i].DisplayOrder < defs[j].DisplayOrder })
		store.gauges[d.ID] = defs
	}
	sort.SliceStable(store.dashboards, func(i, j int) bool {
		return store.dashboards[i].DisplayOrder < store.dashboards[j].DisplayOrder
	})
	return store, nil
}

func (s *FileConfigStore) ListDashboards(_ context.Context) ([]models.Dashboard, error) {
	out := make([]models.Dashboard, len(s.dashboards))
	copy(out, s.dashboards)
	return out, nil
}

func (s *FileConfigStore) ListGauges(_ context.Context, dashboardID string) ([]gauge.Definition, error) {
	defs := s.gauges[dashboardID]
	out := make([]gauge.Definition, len(defs))
	copy(out, defs)
	return out, nil
}
