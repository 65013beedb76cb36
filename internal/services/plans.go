package services

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/pathwise-backend/internal/domain"
)

//go:embed plans.yaml
var plansYAML []byte

type Plan struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Price    float64  `yaml:"price" json:"price"`
	Credits  int      `yaml:"credits" json:"credits"`
	Features []string `yaml:"features" json:"features"`
}

// PlanCatalog is the ordered set of plans.
type PlanCatalog struct {
	plans []Plan
	byID  map[string]Plan
}

// LoadPlanCatalog decodes the embedded catalog.
func LoadPlanCatalog() (*PlanCatalog, error) {
	return ParsePlanCatalog(plansYAML)
}

func ParsePlanCatalog(raw []byte) (*PlanCatalog, error) {
	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	c := &PlanCatalog{byID: make(map[string]Plan, len(doc.Plans))}
	for _, p := range doc.Plans {
		if p.ID == "" {
			return nil, fmt.Errorf("decode plans: plan without id")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("decode plans: duplicate plan %q", p.ID)
		}
		if p.Credits < 0 {
			return nil, fmt.Errorf("decode plans: plan %q has negative credits", p.ID)
		}
		c.plans = append(c.plans, p)
		c.byID[p.ID] = p
	}
	if _, ok := c.byID[types.PlanFree]; !ok {
		return nil, fmt.Errorf("decode plans: missing %q plan", types.PlanFree)
	}
	return c, nil
}

func (c *PlanCatalog) List() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

func (c *PlanCatalog) Get(id string) (Plan, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Resolve returns the plan, or the free plan for unknown ids.
func (c *PlanCatalog) Resolve(id string) Plan {
	if p, ok := c.byID[id]; ok {
		return p
	}
	return c.byID[types.PlanFree]
}
