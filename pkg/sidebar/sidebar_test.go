package sidebar

import "testing"

type fakeHost struct {
	area string
	sets []string
}

func (h *fakeHost) ActiveArea() string { return h.area }

func (h *fakeHost) SetActiveArea(area string) {
	h.area = area
	h.sets = append(h.sets, area)
}

func TestSetBlockSelectedForcesPanels(t *testing.T) {
	host := &fakeHost{area: "plugin/custom"}
	controller := NewController(host)

	controller.SetBlockSelected(true)
	if host.area != PanelBlock {
		t.Fatalf("expected block panel forced, got %q", host.area)
	}

	host.area = "plugin/custom"
	controller.SetBlockSelected(false)
	if host.area != PanelDocument {
		t.Fatalf("expected document panel forced, got %q", host.area)
	}
}

func TestSetBlockSelectedNoOpWithoutTransition(t *testing.T) {
	host := &fakeHost{area: "plugin/custom"}
	controller := NewController(host)

	controller.SetBlockSelected(false)
	controller.SetBlockSelected(false)
	if len(host.sets) != 0 {
		t.Fatalf("expected no area changes without a transition, got %v", host.sets)
	}
}

func TestSetBlockSelectedLeavesEditorManagedAreasAlone(t *testing.T) {
	host := &fakeHost{area: PanelDocument}
	controller := NewController(host)

	controller.SetBlockSelected(true)
	if len(host.sets) != 0 {
		t.Fatalf("expected editor-managed area untouched, got %v", host.sets)
	}
	if !controller.BlockSelected() {
		t.Fatalf("expected selection flag recorded")
	}
}

func TestEditorManaged(t *testing.T) {
	cases := []struct {
		area string
		want bool
	}{
		{PanelBlock, true},
		{PanelDocument, true},
		{"plugin/custom", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := EditorManaged(tc.area); got != tc.want {
			t.Fatalf("EditorManaged(%q) = %v, want %v", tc.area, got, tc.want)
		}
	}
}

func TestNilControllerIsSafe(t *testing.T) {
	var controller *Controller
	controller.SetBlockSelected(true)
	if controller.BlockSelected() {
		t.Fatalf("expected nil controller to report no selection")
	}
	if controller.ActivePanel() != "" {
		t.Fatalf("expected empty active panel on nil controller")
	}
}
