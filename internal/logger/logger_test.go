package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		want     []string
		filtered []string
	}{
		{"off silences everything", LevelOff, nil, []string{"dbg-msg", "inf-msg", "wrn-msg", "err-msg"}},
		{"normal hides debug", LevelNormal, []string{"inf-msg", "wrn-msg", "err-msg"}, []string{"dbg-msg"}},
		{"verbose shows everything", LevelVerbose, []string{"dbg-msg", "inf-msg", "wrn-msg", "err-msg"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)

			log.Debug("dbg-msg")
			log.Info("inf-msg")
			log.Warn("wrn-msg")
			log.Error("err-msg")

			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, skip := range tt.filtered {
				if strings.Contains(out, skip) {
					t.Errorf("output should not contain %q:\n%s", skip, out)
				}
			}
		})
	}
}

func TestLevelTags(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelVerbose, &buf)

	log.Debug("a")
	log.Info("b")
	log.Warn("c")
	log.Error("d")

	out := buf.String()
	for _, tag := range []string{"[DBG]", "[INF]", "[WRN]", "[ERR]"} {
		if !strings.Contains(out, tag) {
			t.Errorf("output missing level tag %q:\n%s", tag, out)
		}
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Debug("before")
	if strings.Contains(buf.String(), "before") {
		t.Fatal("debug should be filtered at normal level")
	}

	log.SetLevel(LevelVerbose)
	if got := log.GetLevel(); got != LevelVerbose {
		t.Fatalf("GetLevel: got %v, want %v", got, LevelVerbose)
	}

	log.Debug("after")
	if !strings.Contains(buf.String(), "after") {
		t.Fatal("debug should pass after raising the level to verbose")
	}
}

func TestFormatArgs(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Info("added %d %s", 3, "eggs")
	if !strings.Contains(buf.String(), "added 3 eggs") {
		t.Errorf("formatted message missing:\n%s", buf.String())
	}
}
