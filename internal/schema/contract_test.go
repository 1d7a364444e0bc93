package schema

import "testing"

func TestExecutionParams_OrderAndOverwrite(t *testing.T) {
	p := NewExecutionParams()
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("a", "override")

	keys := p.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("keys: %v", keys)
	}
	if v, _ := p.Get("a"); v != "override" {
		t.Errorf("overwrite lost position or value: %q", v)
	}
}

func TestFieldContract_StaticDynamicSplit(t *testing.T) {
	c := &FieldContract{
		PrimaryFields: []PrimaryField{
			{FieldKey: "x", IsDynamic: true},
			{FieldKey: "y", GeneratedValue: "v"},
			{FieldKey: "z", IsDynamic: true},
		},
	}
	d := c.DynamicFields()
	if len(d) != 2 || d[0].FieldKey != "x" || d[1].FieldKey != "z" {
		t.Errorf("dynamic: %v", d)
	}
	s := c.StaticFields()
	if len(s) != 1 || s[0].FieldKey != "y" {
		t.Errorf("static: %v", s)
	}
}

func TestCollectedValues_Clone(t *testing.T) {
	v := CollectedValues{"a": "1"}
	c := v.Clone()
	c["a"] = "2"
	if v["a"] != "1" {
		t.Error("clone aliases original")
	}
}
