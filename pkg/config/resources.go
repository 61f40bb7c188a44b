package config

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultKey is the reserved role key under which the fallback resource
// record is declared in the resources section.
const DefaultKey = "__default__"

// ResourceConfig is a fully-populated compute target for one named role
type ResourceConfig struct {
	ClusterName string `yaml:"cluster_name"`
}

// ResourceOverride contains per-role override values for a resource record.
// All fields are optional - nil means inherit from the default record.
type ResourceOverride struct {
	ClusterName *string `yaml:"cluster_name,omitempty"`
}

// apply returns base with every explicitly-set override field replaced
func (o ResourceOverride) apply(base ResourceConfig) ResourceConfig {
	if o.ClusterName != nil {
		base.ClusterName = *o.ClusterName
	}

	return base
}

// ResourceTable maps role keys to compute targets. It owns one default
// record and a set of partial per-role overrides; every lookup resolves
// to a complete record by merging the override onto the default field by
// field. The table is read-only after Parse, so concurrent readers need
// no locking.
type ResourceTable struct {
	def         ResourceConfig
	hasExplicit bool
	overrides   map[string]ResourceOverride
}

// UnmarshalYAML implements yaml.Unmarshaler for the raw resources mapping
func (t *ResourceTable) UnmarshalYAML(value *yaml.Node) error {
	raw := map[string]ResourceOverride{}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if d, ok := raw[DefaultKey]; ok {
		t.def = d.apply(ResourceConfig{})
		t.hasExplicit = true

		delete(raw, DefaultKey)
	}

	t.overrides = raw

	return nil
}

// finalize installs the synthesized fallback when the raw document carried
// no explicit default entry, and checks an explicit one for completeness.
// Called exactly once, from Config validation.
func (t *ResourceTable) finalize(fallback ResourceConfig, path string) error {
	if !t.hasExplicit {
		t.def = fallback
		return nil
	}

	if t.def.ClusterName == "" {
		return &ValidationError{Path: path + "." + DefaultKey + ".cluster_name", Err: ErrFieldRequired}
	}

	return nil
}

// Default returns the table's fallback record
func (t *ResourceTable) Default() ResourceConfig {
	return t.def
}

// Resolve returns the complete resource record for any role key. Unknown
// keys yield the default record; known keys yield the default with the
// role's explicitly-set fields applied on top. Resolve never fails.
func (t *ResourceTable) Resolve(key string) ResourceConfig {
	if key == DefaultKey {
		return t.def
	}

	override, ok := t.overrides[key]
	if !ok {
		return t.def
	}

	return override.apply(t.def)
}

// Roles returns the explicitly configured role keys in sorted order,
// excluding the default entry
func (t *ResourceTable) Roles() []string {
	roles := make([]string, 0, len(t.overrides))
	for key := range t.overrides {
		roles = append(roles, key)
	}

	sort.Strings(roles)

	return roles
}
