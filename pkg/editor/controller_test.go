package editor

import (
	"os"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/novelgraph/pkg/geom"
	"github.com/matzehuels/novelgraph/pkg/story"
)

// twoScenes places A around (200,100) and B around (200,400).
func twoScenes(t *testing.T) (*Controller, *story.Node, *story.Node) {
	t.Helper()
	g := story.New()
	a := g.Node(g.Add(story.NewImage(geom.Pt(200, 100), geom.SceneBlue)))
	b := g.Node(g.Add(story.NewImage(geom.Pt(200, 400), geom.SceneBlue)))
	c := New(g, nil)
	c.Logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.ErrorLevel})
	return c, a, b
}

func press(p geom.Point, b Button) Snapshot {
	return Snapshot{Pointer: p, Buttons: Buttons(b), Focused: true, Events: []Event{{Kind: PointerDown, Button: b}}}
}

func release(p geom.Point, b Button) Snapshot {
	return Snapshot{Pointer: p, Focused: true, Events: []Event{{Kind: PointerUp, Button: b}}}
}

func drag(p, rel geom.Point, b Button) Snapshot {
	return Snapshot{Pointer: p, Buttons: Buttons(b), Focused: true, Events: []Event{{Kind: PointerMotion, Rel: rel}}}
}

func TestSelectDragRelease(t *testing.T) {
	c, a, _ := twoScenes(t)

	c.Process(press(geom.Pt(200, 100), ButtonLeft))
	if !c.Graph.IsSelected(a.ID) {
		t.Fatal("A not selected after click")
	}
	c.Process(drag(geom.Pt(210, 105), geom.Pt(10, 5), ButtonLeft))
	if want := geom.Pt(150, 72); a.Pos != want {
		t.Errorf("A.Pos = %v, want %v", a.Pos, want)
	}
	c.Process(release(geom.Pt(210, 105), ButtonLeft))
	if c.Graph.IsSelected(a.ID) {
		t.Error("A still selected after release without shift")
	}
}

func TestShiftSelectionSurvivesRelease(t *testing.T) {
	c, a, _ := twoScenes(t)
	s := press(geom.Pt(200, 100), ButtonLeft)
	s.Shift = true
	c.Process(s)
	c.Process(release(geom.Pt(200, 100), ButtonLeft))
	if !c.Graph.IsSelected(a.ID) {
		t.Error("shift selection dropped on release")
	}
}

func TestArrowGesture(t *testing.T) {
	c, a, b := twoScenes(t)

	c.Process(press(geom.Pt(200, 150), ButtonLeft))
	if _, ok := c.Graph.Pending(); !ok {
		t.Fatal("no arrow gesture after pressing A's output")
	}
	c.Process(drag(geom.Pt(200, 300), geom.Pt(0, 150), ButtonLeft))
	c.Process(release(geom.Pt(200, 355), ButtonLeft))

	arrows := c.Graph.Arrows()
	if len(arrows) != 1 {
		t.Fatalf("arrows = %d, want 1", len(arrows))
	}
	if arrows[0].Start != a.OutRef() || arrows[0].End != b.InRef() {
		t.Errorf("arrow = %+v, want A.out -> B.in", arrows[0])
	}
	if _, ok := c.Graph.Pending(); ok {
		t.Error("gesture still pending after release")
	}

	c.Process(press(geom.Pt(200, 150), ButtonRight))
	if n := c.Graph.ArrowCount(); n != 0 {
		t.Errorf("arrows after right-click on connector = %d, want 0", n)
	}
}

func TestCanvasMenuAddsNode(t *testing.T) {
	c, _, _ := twoScenes(t)

	c.Process(press(geom.Pt(600, 600), ButtonRight))
	m := c.Menu()
	if m == nil || !m.Target.IsCanvas() {
		t.Fatalf("menu = %+v, want a canvas menu", m)
	}
	want := []Action{ActionAddImage, ActionAddChoice, ActionAddVariable}
	if len(m.Actions) != len(want) || m.Actions[0] != want[0] {
		t.Fatalf("actions = %v, want %v", m.Actions, want)
	}

	c.Process(press(geom.Pt(610, 610), ButtonLeft))
	if c.Menu() != nil {
		t.Error("menu still open after a click")
	}
	if got := c.Graph.NodeCount(); got != 3 {
		t.Errorf("nodes = %d, want 3", got)
	}
}

func TestNodeMenu(t *testing.T) {
	c, a, _ := twoScenes(t)

	c.Process(press(geom.Pt(200, 100), ButtonRight))
	if m := c.Menu(); m == nil || m.Target.Node != a.ID {
		t.Fatalf("menu = %+v, want one on A", m)
	}
	// Row 2 is "Initial".
	c.Process(press(geom.Pt(210, 230), ButtonLeft))
	if !a.Initial {
		t.Error("A not initial after choosing the menu entry")
	}

	c.Process(press(geom.Pt(200, 100), ButtonRight))
	c.Process(press(geom.Pt(210, 170), ButtonLeft))
	req, ok := c.Request()
	if !ok || req.Action != ActionSetText || req.Target.Node != a.ID {
		t.Fatalf("Request = %+v, %v; want SetText on A", req, ok)
	}
	if err := c.Apply(req.Action, req.Target, Input{Text: "hello"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if a.Text() != "hello" {
		t.Errorf("text = %q, want hello", a.Text())
	}
	if _, ok := c.Request(); ok {
		t.Error("Request not cleared after being read")
	}
}

func TestMenuDismissDropsRestOfFrame(t *testing.T) {
	c, a, _ := twoScenes(t)
	c.Process(press(geom.Pt(600, 600), ButtonRight))

	s := Snapshot{Pointer: geom.Pt(200, 100), Focused: true, Events: []Event{
		{Kind: KeyPress},
		{Kind: PointerDown, Button: ButtonLeft},
	}}
	c.Process(s)
	if c.Menu() != nil {
		t.Error("menu still open")
	}
	if c.Graph.IsSelected(a.ID) {
		t.Error("event after the dismissing one was processed")
	}
}

func TestPan(t *testing.T) {
	c, a, b := twoScenes(t)
	c.Process(Snapshot{Keys: Keys(KeyRight) | Keys(KeyUp), Focused: true})
	if want := geom.Pt(120, 87); a.Pos != want {
		t.Errorf("A.Pos = %v, want %v", a.Pos, want)
	}

	c.Process(Snapshot{Pointer: geom.Pt(50, 50), Buttons: Buttons(ButtonMiddle), Focused: true,
		Events: []Event{{Kind: PointerMotion, Rel: geom.Pt(-20, 0)}}})
	if want := geom.Pt(100, 387); b.Pos != want {
		t.Errorf("B.Pos = %v, want %v", b.Pos, want)
	}
}

func TestWheelZoomsChoices(t *testing.T) {
	g := story.New()
	ch := g.Node(g.Add(story.NewChoice(geom.Pt(0, 0), geom.ChoiceBlue, true)))
	c := New(g, nil)
	c.Process(Snapshot{Focused: true, Events: []Event{{Kind: Wheel, DY: 2}}})
	if got := ch.Answers[0].Size; got != (geom.Size{W: 130, H: 130.0 / 3}) {
		t.Errorf("answer size = %v, want 130 x 43.3", got)
	}
}

func TestProcessReportsActivity(t *testing.T) {
	c, _, _ := twoScenes(t)
	if c.Process(Snapshot{Focused: true}) {
		t.Error("Process(empty) = true, want false")
	}
	if !c.Process(drag(geom.Pt(0, 0), geom.Pt(1, 1), 0)) {
		t.Error("Process(motion) = false, want true")
	}
}

func TestActionsFor(t *testing.T) {
	g := story.New()
	img := g.Add(story.NewImage(geom.Pt(0, 0), geom.SceneBlue))
	v := g.Add(story.NewVariable(geom.Pt(0, 300), geom.VariableOrange))
	ch := g.Node(g.Add(story.NewChoice(geom.Pt(300, 0), geom.ChoiceBlue, true)))
	circle := g.Add(story.NewCircle(geom.Pt(600, 600), 40, geom.White))

	tests := []struct {
		name   string
		target Target
		want   []Action
	}{
		{"canvas", Target{}, []Action{ActionAddImage, ActionAddChoice, ActionAddVariable}},
		{"image", Target{Node: img}, []Action{ActionDelete, ActionSetText, ActionSetInitial, ActionImportImage}},
		{"variable", Target{Node: v}, []Action{ActionDelete, ActionSetInitial, ActionSetAssignment}},
		{"choice", Target{Node: ch.ID}, []Action{ActionDelete, ActionSetInitial}},
		{"answer", Target{Node: ch.ID, Answer: ch.Answers[0].ID}, []Action{ActionDelete, ActionSetText, ActionDeleteAnswer}},
		{"circle", Target{Node: circle}, []Action{ActionDelete, ActionSetInitial}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActionsFor(g, tt.target)
			if len(got) != len(tt.want) {
				t.Fatalf("ActionsFor = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ActionsFor[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestApply(t *testing.T) {
	g := story.New()
	v := g.Node(g.Add(story.NewVariable(geom.Pt(0, 0), geom.VariableOrange)))
	ch := g.Node(g.Add(story.NewChoice(geom.Pt(300, 0), geom.ChoiceBlue, true)))
	second, _ := g.AddAnswer(ch.ID)
	c := New(g, nil)

	a, _ := story.ParseAssignment("hp -= 3")
	if err := c.Apply(ActionSetAssignment, Target{Node: v.ID}, Input{Assignment: a}); err != nil {
		t.Fatalf("SetAssignment: %v", err)
	}
	if v.Text() != "hp -= 3" {
		t.Errorf("variable text = %q, want %q", v.Text(), "hp -= 3")
	}

	if err := c.Apply(ActionSetText, Target{Node: ch.ID, Answer: second}, Input{Text: "Run"}); err != nil {
		t.Fatalf("SetText on answer: %v", err)
	}
	if ans, _ := g.Answer(second); ans.Label.Text != "Run" {
		t.Errorf("answer text = %q, want Run", ans.Label.Text)
	}

	if err := c.Apply(ActionDeleteAnswer, Target{Node: ch.ID, Answer: second}, Input{}); err != nil {
		t.Fatalf("DeleteAnswer: %v", err)
	}
	if len(ch.Answers) != 1 {
		t.Errorf("answers = %d, want 1", len(ch.Answers))
	}

	if err := c.Apply(ActionDelete, Target{Node: ch.ID, Answer: ch.Answers[0].ID}, Input{}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if g.Node(ch.ID) != nil {
		t.Error("Delete on an answer target left the choice in place")
	}

	if err := c.Apply(ActionDelete, Target{Node: 99}, Input{}); err == nil {
		t.Error("Apply on an unknown node = nil error")
	}
}
