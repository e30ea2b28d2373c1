package logging

import "testing"

func TestSetVerboseGatesDebugOutput(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(false)
	if Verbose() {
		t.Fatal("Verbose() = true after SetVerbose(false)")
	}

	SetVerbose(true)
	if !Verbose() {
		t.Fatal("Verbose() = false after SetVerbose(true)")
	}
}
