package unit

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteUnitsJSON serializes units as a pretty-printed JSON array.
func WriteUnitsJSON(path string, units []AtomicUnit) error {
	if units == nil {
		units = []AtomicUnit{}
	}
	data, err := json.MarshalIndent(units, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode units: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadUnitsJSON loads the units.json array produced by the slicer.
func ReadUnitsJSON(path string) ([]AtomicUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var units []AtomicUnit
	if err := json.Unmarshal(data, &units); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return units, nil
}

// WriteBuildOrder serializes the mapper's build order.
func WriteBuildOrder(path string, order BuildOrder) error {
	data, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode build order: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadBuildOrder loads a previously-written build_order.json.
func ReadBuildOrder(path string) (BuildOrder, error) {
	var order BuildOrder
	data, err := os.ReadFile(path)
	if err != nil {
		return order, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &order); err != nil {
		return order, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return order, nil
}

// WriteCycleAnalysis serializes the mapper's optional cycle analysis output.
func WriteCycleAnalysis(path string, analyses []CycleAnalysis) error {
	if analyses == nil {
		analyses = []CycleAnalysis{}
	}
	data, err := json.MarshalIndent(analyses, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cycle analysis: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
