package refdata

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"encoding/json"
	"fmt"
	"os"
)

// fileData is the on-disk catalog document, one file holding all four
// collections under the upstream endpoint names.
type fileData struct {
	Drones             []*domain.Drone              `json:"drones"`
	ServicePoints      []*domain.ServicePoint       `json:"servicePoints"`
	RestrictedAreas    []*domain.NoFlyZone          `json:"restrictedAreas"`
	ServicePointDrones []*domain.ServicePointDrones `json:"dronesForServicePoints"`
}

// FileCatalog serves reference data from a JSON file, for local runs and
// tests. The file is read once at construction.
type FileCatalog struct {
	data fileData
}

func NewFileCatalog(path string) (*FileCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("file catalog: %w", err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("file catalog: decode %s: %w", path, err)
	}
	return &FileCatalog{data: data}, nil
}

func (c *FileCatalog) Drones(context.Context) ([]*domain.Drone, error) {
	return c.data.Drones, nil
}

func (c *FileCatalog) ServicePoints(context.Context) ([]*domain.ServicePoint, error) {
	return c.data.ServicePoints, nil
}

func (c *FileCatalog) NoFlyZones(context.Context) ([]*domain.NoFlyZone, error) {
	return c.data.RestrictedAreas, nil
}

func (c *FileCatalog) ServicePointDrones(context.Context) ([]*domain.ServicePointDrones, error) {
	return c.data.ServicePointDrones, nil
}
