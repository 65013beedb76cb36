package services

import (
	"testing"

	types "github.com/yungbote/pathwise-backend/internal/domain"
)

func TestLoadPlanCatalog(t *testing.T) {
	c, err := LoadPlanCatalog()
	if err != nil {
		t.Fatalf("LoadPlanCatalog: %v", err)
	}
	want := []struct {
		id      string
		price   float64
		credits int
	}{
		{types.PlanFree, 0, 5},
		{types.PlanBasic, 10, 50},
		{types.PlanPro, 25, 200},
		{types.PlanPremium, 50, 1000},
	}
	plans := c.List()
	if len(plans) != len(want) {
		t.Fatalf("plans: want=%d got=%d", len(want), len(plans))
	}
	for i, w := range want {
		p := plans[i]
		if p.ID != w.id || p.Price != w.price || p.Credits != w.credits || len(p.Features) == 0 {
			t.Fatalf("plan[%d]: want=%+v got=%+v", i, w, p)
		}
	}
	if c.Resolve("nope").ID != types.PlanFree {
		t.Fatalf("Resolve unknown: want free")
	}
}

func TestParsePlanCatalogRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"no free":   "plans:\n  - id: pro\n    credits: 1\n",
		"duplicate": "plans:\n  - id: free\n  - id: free\n",
		"no id":     "plans:\n  - name: x\n",
		"negative":  "plans:\n  - id: free\n    credits: -1\n",
		"not yaml":  "plans: [",
	}
	for name, raw := range cases {
		if _, err := ParsePlanCatalog([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
