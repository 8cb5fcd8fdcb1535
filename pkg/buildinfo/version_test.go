package buildinfo

import (
	"strings"
	"testing"
)

func TestStrings(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if got := UserAgent("zonelink"); got != "zonelink/v1.2.3" {
		t.Errorf("UserAgent = %q", got)
	}
	if !strings.Contains(String(), "version: v1.2.3") {
		t.Errorf("String = %q", String())
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template = %q", Template())
	}
}
