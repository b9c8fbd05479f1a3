package dialog

import (
	"encoding/json"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	raw, err := json.Marshal(Payload{KeyKind: "F", KeySubprojectID: int64(42)})
	if err != nil {
		t.Fatal(err)
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatal(err)
	}
	if s, ok := GetString(p, KeyKind); !ok || s != "F" {
		t.Errorf("kind = %q %v", s, ok)
	}
	if id, ok := GetInt64(p, KeySubprojectID); !ok || id != 42 {
		t.Errorf("subproject = %d %v", id, ok)
	}
	if _, ok := GetInt64(p, "missing"); ok {
		t.Error("missing key reported present")
	}
	if _, ok := GetString(p, KeySubprojectID); ok {
		t.Error("number read as string")
	}
}
