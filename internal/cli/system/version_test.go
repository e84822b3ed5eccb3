package system

import "testing"

func TestVersionCmd(t *testing.T) {
	for _, output := range []string{"json", "yaml"} {
		if err := (&VersionCmd{Output: output}).Run(nil); err != nil {
			t.Errorf("version -o %s failed: %v", output, err)
		}
	}
	if err := (&VersionCmd{Short: true, Output: "json"}).Run(nil); err != nil {
		t.Errorf("version --short failed: %v", err)
	}
}
