// Package weaveconfig loads a weave's options from a YAML document,
// grounded on the component-model descriptor package's own
// sigs.k8s.io/yaml.UnmarshalStrict pattern: read the whole file, unmarshal
// strictly so an unknown key fails loudly instead of being silently
// ignored, and leave the in-memory shape (json-tagged, since sigs.k8s.io/
// yaml converts YAML to JSON before unmarshaling) as the one source of
// truth for both the file format and driver.Options translation.
package weaveconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/ilweave/mixweave/driver"
	"github.com/ilweave/mixweave/model"
)

// Spec mirrors the shape of driver.Options: the two documented options from
// spec.md §6 (skip-constructor-mark, custom-attribute-filter) plus the
// source and target root type names a weave needs to locate its endpoints.
type Spec struct {
	SourceModule string `json:"sourceModule"`
	SourceType   string `json:"sourceType"`
	TargetModule string `json:"targetModule"`
	TargetType   string `json:"targetType"`

	// SkipConstructorMark enables skip-constructor-mark exclusion; see
	// driver.Options.SkipConstructorMark.
	SkipConstructorMark bool `json:"skipConstructorMark"`

	// CustomAttributeFilter lists glob-style names (filepath.Match syntax) of
	// meta-attributes to exclude from propagation, in addition to the
	// mixin marker driver.DefaultAttributeFilter already excludes. A
	// source root attribute is propagated only if none of these patterns
	// matches its AttributeType().FullName() or equals it ignoring case.
	CustomAttributeFilter []string `json:"customAttributeFilter"`
}

// Load reads and strictly parses the YAML document at path into a Spec.
func Load(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("weaveconfig: read %s: %w", path, err)
	}

	var spec Spec
	if err := yaml.UnmarshalStrict(raw, &spec); err != nil {
		return nil, fmt.Errorf("weaveconfig: parse %s: %w", path, err)
	}

	if spec.SourceType == "" {
		return nil, fmt.Errorf("weaveconfig: %s: sourceType is required", path)
	}
	if spec.TargetType == "" {
		return nil, fmt.Errorf("weaveconfig: %s: targetType is required", path)
	}

	return &spec, nil
}

// ToDriverOptions resolves CustomAttributeFilter's glob patterns into a
// driver.Options.CustomAttributeFilter predicate layered on top of
// driver.DefaultAttributeFilter, so the mixin marker is always excluded
// regardless of what the YAML document names.
func (s *Spec) ToDriverOptions() driver.Options {
	patterns := s.CustomAttributeFilter

	return driver.Options{
		SkipConstructorMark: s.SkipConstructorMark,
		CustomAttributeFilter: func(attr model.CustomAttribute) bool {
			if !driver.DefaultAttributeFilter(attr) {
				return false
			}

			name := attr.AttributeType().FullName()
			for _, pattern := range patterns {
				if matched, _ := filepath.Match(pattern, name); matched {
					return false
				}
				if strings.EqualFold(pattern, name) {
					return false
				}
			}

			return true
		},
	}
}
