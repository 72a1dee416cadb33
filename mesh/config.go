package mesh

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// BatchConfig holds the parameters shared by the batch drivers (C15): a
// registration stage (voxel/fpfh_radius/icp_thr), a clearance stage
// (clearance/safety_delta/samples for the sampling evaluator, voxel_sdf/
// band_mm for the voxel verifier), and a concurrency knob.
type BatchConfig struct {
	Voxel        float64 `yaml:"voxel" json:"voxel"`
	FPFHRadius   float64 `yaml:"fpfhRadius" json:"fpfhRadius"`
	ICPThreshold float64 `yaml:"icpThreshold" json:"icpThreshold"`
	Clearance    float64 `yaml:"clearance" json:"clearance"`
	SafetyDelta  float64 `yaml:"safetyDelta" json:"safetyDelta"`
	Samples      int     `yaml:"samples" json:"samples"`
	VoxelSDF     float64 `yaml:"voxelSdf" json:"voxelSdf"`
	BandMM       float64 `yaml:"bandMm" json:"bandMm"`
	Threads      int     `yaml:"threads" json:"threads"`
}

// DefaultBatchConfig returns the defaults used by the reference core's
// pybind11 bindings (clearance_sampling/clearance_sdf_volume defaults).
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		Voxel:        0.30,
		FPFHRadius:   1.5,
		ICPThreshold: 0.9,
		Clearance:    2.0,
		SafetyDelta:  0.3,
		Samples:      120000,
		VoxelSDF:     0.30,
		BandMM:       8.0,
		Threads:      -1,
	}
}

// ResolvedThreads returns cfg.Threads if positive, else GOMAXPROCS(0),
// matching the reference core's threads=-1 "use all cores" convention.
func (cfg BatchConfig) ResolvedThreads() int {
	if cfg.Threads > 0 {
		return cfg.Threads
	}
	return runtime.GOMAXPROCS(0)
}

// Validate checks that voxel, clearance, safetyDelta, samples, voxelSdf and
// bandMm are in range; fpfhRadius, icpThreshold and threads are not checked.
func (cfg BatchConfig) Validate() error {
	if err := validatePositive("voxel", cfg.Voxel); err != nil {
		return err
	}
	if err := validatePositive("clearance", cfg.Clearance); err != nil {
		return err
	}
	if err := validateNonNegative("safetyDelta", cfg.SafetyDelta); err != nil {
		return err
	}
	if cfg.Samples <= 0 {
		return errInvalid("samples", cfg.Samples, "must be positive")
	}
	if err := validatePositive("voxelSdf", cfg.VoxelSDF); err != nil {
		return err
	}
	if err := validateNonNegative("bandMm", cfg.BandMM); err != nil {
		return err
	}
	return nil
}

// LoadBatchConfig loads a BatchConfig from a YAML file, filling unset fields
// from DefaultBatchConfig.
func LoadBatchConfig(path string) (*BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultBatchConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// SaveBatchConfig writes cfg to path as YAML.
func SaveBatchConfig(path string, cfg *BatchConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
