package logger

import "testing"

func TestNewDefaultsToInfoLevel(t *testing.T) {
	l := New(Config{Level: "bogus", Format: "text"})
	if l == nil || l.logger == nil {
		t.Fatal("New should always return a usable logger")
	}
}

func TestWithRunAndWithSegmentChain(t *testing.T) {
	l := New(Config{Level: "debug", Format: "text"})
	scoped := l.WithRun("run-1").WithSegment("direct_flight")
	if scoped == nil || scoped.logger == nil {
		t.Fatal("WithRun/WithSegment must return a usable logger")
	}
}

func TestPackageLevelConvenienceFunctionsDoNotPanicWithoutInit(t *testing.T) {
	defaultLogger = nil
	Info("message")
	Debug("message")
	Warn("message")
	Error(nil, "message")
	if WithField("k", "v") == nil {
		t.Fatal("WithField must return a usable logger even without Init")
	}
	if WithRun("run-1") == nil {
		t.Fatal("WithRun must return a usable logger even without Init")
	}
}
