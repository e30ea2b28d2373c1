package tools

import "testing"

func TestExtractPythonBodyFencedBlock(t *testing.T) {
	text := "PYTHON_SCRIPT: 1 greet\n```python\nprint('hi')\n```"
	body, ok := ExtractPythonBody(text)
	if !ok || body != "print('hi')" {
		t.Fatalf("body=%q ok=%v", body, ok)
	}
}

func TestExtractPythonBodyTrailingLines(t *testing.T) {
	text := "PYTHON_SCRIPT: 1 greet\nprint('hi')\nprint('bye')\nFETCH_URL: https://example.com"
	body, ok := ExtractPythonBody(text)
	if !ok || body != "print('hi')\nprint('bye')" {
		t.Fatalf("body=%q ok=%v", body, ok)
	}
}

func TestExtractPythonBodyNone(t *testing.T) {
	if _, ok := ExtractPythonBody("PYTHON_SCRIPT: 1 greet"); ok {
		t.Fatal("expected no body found")
	}
}
