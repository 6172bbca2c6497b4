package specs

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/eykd/edi-trainer-go/internal/domain"
)

// document is the on-disk shape of one specification source.
type document struct {
	Segments []segmentDoc `yaml:"segments"`
}

type segmentDoc struct {
	ID          string     `yaml:"id"`
	Description string     `yaml:"description"`
	Role        string     `yaml:"role"`
	Pair        string     `yaml:"pair"`
	Fields      []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	ID             string        `yaml:"id"`
	Description    string        `yaml:"description"`
	CharacterSet   string        `yaml:"character_set"`
	MinLength      int           `yaml:"min_length"`
	MaxLength      int           `yaml:"max_length"`
	ValidValues    []string      `yaml:"valid_values"`
	CommonErrors   []string      `yaml:"common_errors"`
	ErrorScenarios []scenarioDoc `yaml:"error_scenarios"`
	Required       bool          `yaml:"required"`
	FieldType      string        `yaml:"field_type"`
	SharedKey      string        `yaml:"shared_key"`
	Default        *string       `yaml:"default"`
}

// scenarioDoc accepts either a bare kind ("blank_value") or a mapping
// with a kind and weight.
type scenarioDoc struct {
	Kind   string
	Weight float64
}

// UnmarshalYAML decodes the scalar or mapping form.
func (s *scenarioDoc) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		s.Kind = value.Value
		return nil
	case yaml.MappingNode:
		var m struct {
			Kind   string  `yaml:"kind"`
			Weight float64 `yaml:"weight"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		s.Kind, s.Weight = m.Kind, m.Weight
		return nil
	}
	return fmt.Errorf("line %d: error scenario must be a kind or a {kind, weight} mapping", value.Line)
}

func (d segmentDoc) toSpec() domain.SegmentSpec {
	role := domain.SegmentRole(d.Role)
	if role == "" {
		role = domain.RoleBody
	}
	spec := domain.SegmentSpec{
		ID:          d.ID,
		Description: d.Description,
		Role:        role,
		Pair:        d.Pair,
		Fields:      make([]domain.FieldSpec, len(d.Fields)),
	}
	for i, f := range d.Fields {
		spec.Fields[i] = f.toSpec()
	}
	return spec
}

func (f fieldDoc) toSpec() domain.FieldSpec {
	ft := domain.FieldType(f.FieldType)
	if ft == "" {
		ft = domain.FieldGeneric
		if len(f.ValidValues) > 0 {
			ft = domain.FieldCode
		}
	}
	spec := domain.FieldSpec{
		ID:           f.ID,
		Segment:      domain.SegmentOf(f.ID),
		Description:  f.Description,
		CharacterSet: domain.CharacterSet(f.CharacterSet),
		MinLength:    f.MinLength,
		MaxLength:    f.MaxLength,
		ValidValues:  append([]string(nil), f.ValidValues...),
		CommonErrors: append([]string(nil), f.CommonErrors...),
		Required:     f.Required,
		FieldType:    ft,
		SharedKey:    f.SharedKey,
	}
	if f.Default != nil {
		spec.Default = *f.Default
		spec.HasDefault = true
	}
	for _, s := range f.ErrorScenarios {
		spec.ErrorScenarios = append(spec.ErrorScenarios, domain.ErrorScenario{
			Kind:   domain.ErrorKind(s.Kind),
			Weight: s.Weight,
		})
	}
	return spec
}
