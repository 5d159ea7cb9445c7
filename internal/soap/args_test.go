package soap

import (
	"encoding/json"
	"testing"
)

func TestArgumentSet_SetReplacesInPlace(t *testing.T) {
	var s ArgumentSet
	s.Set("InstanceID", "0")
	s.Set("Channel", "Master")
	s.Set("InstanceID", "1")

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	names := s.Names()
	if names[0] != "InstanceID" || names[1] != "Channel" {
		t.Errorf("Names() = %v, want insertion order", names)
	}
	if v, _ := s.Get("InstanceID"); v != "1" {
		t.Errorf("InstanceID = %q, want 1", v)
	}
	if _, ok := s.Get("Missing"); ok {
		t.Error("Get(Missing) reported present")
	}
}

func TestArgumentSet_Equal(t *testing.T) {
	a := NewArgumentSet(Argument{"Channel", "Master"}, Argument{"InstanceID", "0"})
	b := NewArgumentSet(Argument{"InstanceID", "0"}, Argument{"Channel", "Master"})
	c := NewArgumentSet(Argument{"InstanceID", "0"})
	d := NewArgumentSet(Argument{"InstanceID", "0"}, Argument{"Channel", "LF"})

	if !a.Equal(b) {
		t.Error("sets differing only in order should be equal")
	}
	if a.Equal(c) || a.Equal(d) {
		t.Error("different sets reported equal")
	}
	var empty *ArgumentSet
	if !empty.Equal(&ArgumentSet{}) {
		t.Error("nil and empty sets should be equal")
	}
}

func TestArgumentSet_JSON(t *testing.T) {
	in := NewArgumentSet(Argument{"Speed", "1"}, Argument{"InstanceID", "0"})
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `[{"name":"Speed","value":"1"},{"name":"InstanceID","value":"0"}]` {
		t.Errorf("Marshal() = %s", data)
	}

	var out ArgumentSet
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out.Names()[0] != "Speed" || !out.Equal(in) {
		t.Errorf("Unmarshal() = %v", out.Map())
	}

	data, _ = json.Marshal(&ArgumentSet{})
	if string(data) != "[]" {
		t.Errorf("empty set marshals to %s, want []", data)
	}
}

func TestArgumentSet_AllStopsEarly(t *testing.T) {
	s := NewArgumentSet(Argument{"A", "1"}, Argument{"B", "2"}, Argument{"C", "3"})
	var seen []string
	for name := range s.All() {
		seen = append(seen, name)
		if name == "B" {
			break
		}
	}
	if len(seen) != 2 {
		t.Errorf("seen = %v", seen)
	}
}
