package tree

import "testing"

func TestAddChild(t *testing.T) {
	parent := NewNode(-1)
	parent.AddChild(NewNode(0)).AddChild(NewNode(1))
	ch4 := NewNode(4)
	parent.SetChildAt(4, ch4)
	ch, _ := parent.Child(4)
	if ch == nil {
		t.Errorf("Inserted child at position 4 should have payload of 4, is nil")
	} else if ch != ch4 {
		t.Errorf("Inserted child at position 4 should have payload of 4, has %d", ch.Payload)
	}
	ch3 := NewNode(3)
	parent.InsertChildAt(1, ch3)
	ch, _ = parent.Child(1)
	if ch == nil {
		t.Errorf("Inserted child at position 1 should have payload of 3, is nil")
	} else if ch != ch3 {
		t.Errorf("Inserted child at position 1 should have payload of 3, has %d", ch.Payload)
	}
	ch, _ = parent.Child(5)
	if ch == nil {
		t.Errorf("Inserted child at position 5 should have payload of 4, is nil")
	} else if ch != ch4 {
		t.Errorf("Inserted child at position 5 should have payload of 4, has %d", ch.Payload)
	}
}

func TestParentAndIsolate(t *testing.T) {
	root, child := NewNode(1), NewNode(2)
	root.AddChild(child)
	if child.Parent() != root {
		t.Errorf("child's parent should be root")
	}
	child.Isolate()
	if child.Parent() != nil {
		t.Errorf("isolated child should have no parent, has %v", child.Parent())
	}
	if kids := root.Children(true); len(kids) != 0 {
		t.Errorf("root should have no children after isolating its only child, has %d", len(kids))
	}
}

func TestChildrenOrderPreserved(t *testing.T) {
	root := NewNode(0)
	root.AddChild(NewNode(1)).AddChild(NewNode(2)).AddChild(NewNode(3))
	children := root.Children(true)
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	for i, ch := range children {
		if ch.Payload != i+1 {
			t.Errorf("child %d: expected payload %d, got %d", i, i+1, ch.Payload)
		}
	}
}

func TestIndexOfChild(t *testing.T) {
	root := NewNode(0)
	a, b, c := NewNode(1), NewNode(2), NewNode(3)
	root.AddChild(a).AddChild(b).AddChild(c)
	if root.IndexOfChild(b) != 1 {
		t.Errorf("expected index 1 for b, got %d", root.IndexOfChild(b))
	}
	if root.IndexOfChild(NewNode(99)) != -1 {
		t.Errorf("expected -1 for a node not in the tree")
	}
}
