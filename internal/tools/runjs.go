package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const runJSTimeout = 20 * time.Second

// jsEvaluator reads the file passed as its first argument, evaluates it, and
// prints the result of the final expression.
const jsEvaluator = `
const fs = require('fs');
const path = process.argv[2];
const src = fs.readFileSync(path, 'utf8');
const result = eval(src);
if (result !== undefined) {
  console.log(result);
}
`

// runJS writes code to a per-pid-per-timestamp temp file, invokes node with
// the fixed evaluator script, and returns stdout.
func runJS(ctx context.Context, code string) Result {
	tmpDir := os.TempDir()
	codePath := filepath.Join(tmpDir, fmt.Sprintf("hub-runjs-%d-%d.js", os.Getpid(), time.Now().UnixNano()))
	evalPath := filepath.Join(tmpDir, fmt.Sprintf("hub-runjs-eval-%d.js", os.Getpid()))

	if err := os.WriteFile(codePath, []byte(code), 0o600); err != nil {
		return Result{Text: fmt.Sprintf("RUN_JS failed: could not write temp file: %v. Answer without this result.", err)}
	}
	defer os.Remove(codePath)

	if err := os.WriteFile(evalPath, []byte(jsEvaluator), 0o600); err != nil {
		return Result{Text: fmt.Sprintf("RUN_JS failed: could not write evaluator: %v. Answer without this result.", err)}
	}
	defer os.Remove(evalPath)

	runCtx, cancel := context.WithTimeout(ctx, runJSTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "node", evalPath, codePath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return Result{Text: fmt.Sprintf("RUN_JS failed: %v\n%s\nAnswer without this result.", err, out)}
	}

	return Result{Text: fmt.Sprintf("JavaScript result:\n\n%s\n\nUse this to answer the user's question.", string(out))}
}
