package gate

import (
	"strings"
	"testing"

	"github.com/byStayo/AI-Computer-Controller/internal/domain"
)

func TestYoloAlwaysPermits(t *testing.T) {
	g := &Gate{SafePolicy: func(string) bool { return false }}
	if !g.Permits(domain.ModeYolo, "rm -rf /") {
		t.Fatalf("YOLO must permit regardless of policy")
	}
}

func TestSafeWithoutPolicyPermits(t *testing.T) {
	g := &Gate{}
	if !g.Permits(domain.ModeSafe, "list files") {
		t.Fatalf("SAFE without a policy hook must permit")
	}
}

func TestSafePolicyConsulted(t *testing.T) {
	g := &Gate{SafePolicy: func(text string) bool {
		return !strings.Contains(text, "rm ")
	}}
	if g.Permits(domain.ModeSafe, "rm -rf /tmp/x") {
		t.Fatalf("policy should deny")
	}
	if !g.Permits(domain.ModeSafe, "list files") {
		t.Fatalf("policy should permit")
	}
}
