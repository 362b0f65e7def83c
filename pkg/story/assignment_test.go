package story

import (
	"testing"

	"github.com/matzehuels/novelgraph/pkg/errors"
	"github.com/matzehuels/novelgraph/pkg/geom"
)

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		text    string
		want    Assignment
		wantErr bool
	}{
		{"gold = 10", Assignment{Name: "gold", Op: OpSet, Value: 10}, false},
		{"  gold   +=  2.5 ", Assignment{Name: "gold", Op: OpAdd, Value: 2.5}, false},
		{"trust -= 1", Assignment{Name: "trust", Op: OpSub, Value: 1}, false},
		{"gold", Assignment{}, true},
		{"gold *= 2", Assignment{}, true},
		{"2gold = 1", Assignment{}, true},
		{"gold = many", Assignment{}, true},
	}
	for _, tt := range tests {
		got, err := ParseAssignment(tt.text)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAssignment(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidExpression) {
			t.Errorf("ParseAssignment(%q) code = %v, want %v", tt.text, errors.GetCode(err), errors.ErrCodeInvalidExpression)
		}
		if got != tt.want {
			t.Errorf("ParseAssignment(%q) = %+v, want %+v", tt.text, got, tt.want)
		}
	}
}

func TestAssignmentApply(t *testing.T) {
	vars := map[string]float64{}
	for _, text := range []string{"gold = 10", "gold += 5", "gold -= 3", "trust += 1"} {
		a, err := ParseAssignment(text)
		if err != nil {
			t.Fatalf("ParseAssignment(%q): %v", text, err)
		}
		a.Apply(vars)
	}
	if vars["gold"] != 12 || vars["trust"] != 1 {
		t.Errorf("vars = %v, want gold=12 trust=1", vars)
	}
}

func TestNodeAssignment(t *testing.T) {
	n := NewVariable(geom.Pt(0, 0), geom.VariableOrange)
	n.SetAssignment(Assignment{Name: "gold", Op: OpAdd, Value: 0.5})
	if n.Text() != "gold += 0.5" {
		t.Errorf("Text() = %q, want %q", n.Text(), "gold += 0.5")
	}
	a, err := n.Assignment()
	if err != nil || a.Value != 0.5 {
		t.Errorf("Assignment() = %+v, %v", a, err)
	}

	scene := NewImage(geom.Pt(0, 0), geom.SceneBlue)
	if scene.SetAssignment(a) {
		t.Error("SetAssignment on a scene = true")
	}
}
