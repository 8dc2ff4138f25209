package banner

import (
	"strings"
	"testing"
)

func TestBannerIncludesVersion(t *testing.T) {
	got := Banner("v1.2.3")
	if !strings.Contains(got, "v1.2.3") {
		t.Errorf("banner %q does not mention version", got)
	}
}
