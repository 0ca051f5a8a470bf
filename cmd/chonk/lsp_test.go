package main

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/oarkflow/json"
)

func TestRunCLIStartsLSPAndExitsOnEOF(t *testing.T) {
	origStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close write pipe: %v", err)
	}
	os.Stdin = r
	defer func() {
		os.Stdin = origStdin
		_ = r.Close()
	}()

	if err := runCLI([]string{"chonk", "lsp"}); err != nil {
		t.Fatalf("runCLI lsp failed: %v", err)
	}
}

func TestServeAnswersInitializeAndStopsOnExit(t *testing.T) {
	var in bytes.Buffer
	writeFrame(t, &in, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	writeFrame(t, &in, `{"jsonrpc":"2.0","method":"exit"}`)
	writeFrame(t, &in, `{"jsonrpc":"2.0","id":2,"method":"initialize","params":{}}`)

	var out bytes.Buffer
	if err := newLSPServer(&in, &out).serve(); err != nil {
		t.Fatalf("serve failed: %v", err)
	}

	frames := strings.Split(out.String(), "Content-Length: ")
	if len(frames) != 2 {
		t.Fatalf("expected exactly one response, got %q", out.String())
	}
	if !strings.Contains(out.String(), `"completionProvider"`) {
		t.Fatalf("expected capabilities in response, got %q", out.String())
	}
}

func TestReadPayloadRequiresContentLength(t *testing.T) {
	server := newLSPServer(strings.NewReader("X-Other: 1\r\n\r\n{}"), &bytes.Buffer{})
	if _, err := server.readPayload(); err == nil || !strings.Contains(err.Error(), "missing Content-Length") {
		t.Fatalf("expected missing header error, got %v", err)
	}
}

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	diags := diagnosticsForSource("func run() {\n  return 1;\n}\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
}

func TestDiagnosticsForSourceWithParseError(t *testing.T) {
	diags := diagnosticsForSource("func run() {\n  echo 1\n}\n")
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
	first := diags[0]
	if first["severity"] != severityError {
		t.Fatalf("expected severity 1, got %#v", first["severity"])
	}
	message, ok := first["message"].(string)
	if !ok || !strings.Contains(message, "Expected ';'") {
		t.Fatalf("unexpected diagnostic message %#v", first["message"])
	}
	start := first["range"].(map[string]any)["start"].(map[string]any)
	if start["line"] != 2 || start["character"] != 0 {
		t.Fatalf("unexpected diagnostic start %#v", start)
	}
}

func TestDiagnosticsForSourceWithLexError(t *testing.T) {
	diags := diagnosticsForSource("x = 1;\necho \"😀 open")
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diags))
	}
	if !strings.Contains(diags[0]["message"].(string), "Unterminated string") {
		t.Fatalf("unexpected message %#v", diags[0]["message"])
	}
}

func TestDiagnosticsForSourceIncludesWarnings(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = "1"
	}
	source := fmt.Sprintf("f(%s);\nfunc g() { return 1; echo 2; }\n", strings.Join(args, ","))

	diags := diagnosticsForSource(source)
	if len(diags) != 2 {
		t.Fatalf("expected two warnings, got %#v", diags)
	}
	for _, diag := range diags {
		if diag["severity"] != severityWarning {
			t.Fatalf("expected warning severity, got %#v", diag["severity"])
		}
	}
	if diags[1]["message"] != "unreachable statement" {
		t.Fatalf("unexpected lint message %#v", diags[1]["message"])
	}
}

func TestCompletionItemsAreSortedAndCategorized(t *testing.T) {
	items := completionItems([]string{"clock"})
	if len(items) == 0 {
		t.Fatalf("expected completion items")
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		label, ok := item["label"].(string)
		if !ok {
			t.Fatalf("unexpected completion label: %#v", item["label"])
		}
		labels = append(labels, label)
	}
	if !slices.IsSorted(labels) {
		t.Fatalf("expected sorted completion labels, got %v", labels)
	}

	keyword := findCompletionItem(t, items, "while")
	if keyword["detail"] != "keyword" {
		t.Fatalf("expected keyword detail, got %#v", keyword["detail"])
	}
	if keyword["kind"] != 14 {
		t.Fatalf("expected keyword kind 14, got %#v", keyword["kind"])
	}

	builtin := findCompletionItem(t, items, "clock")
	if builtin["detail"] != "builtin" {
		t.Fatalf("expected builtin detail, got %#v", builtin["detail"])
	}
	if builtin["kind"] != 3 {
		t.Fatalf("expected builtin kind 3, got %#v", builtin["kind"])
	}
}

func TestHandleMessageDidOpenPublishesDiagnostics(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), &bytes.Buffer{})
	params := map[string]any{
		"textDocument": map[string]any{
			"uri":  "file:///tmp/test.chonk",
			"text": "func run( {\n}\n",
		},
	}
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didOpen",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one publishDiagnostics notification, got %d", len(messages))
	}
	if messages[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("unexpected method: %q", messages[0].Method)
	}
	paramsMap, ok := messages[0].Params.(map[string]any)
	if !ok {
		t.Fatalf("unexpected params payload: %#v", messages[0].Params)
	}
	diags, ok := paramsMap["diagnostics"].([]map[string]any)
	if !ok {
		t.Fatalf("unexpected diagnostics payload: %#v", paramsMap["diagnostics"])
	}
	if len(diags) == 0 {
		t.Fatalf("expected diagnostics for invalid source")
	}
	if _, ok := server.docs["file:///tmp/test.chonk"]; !ok {
		t.Fatalf("expected document to be tracked")
	}
}

func TestHandleMessageDidCloseClearsDiagnostics(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), &bytes.Buffer{})
	server.docs["file:///tmp/test.chonk"] = "echo 1"
	payload := json.RawMessage(`{"textDocument":{"uri":"file:///tmp/test.chonk"}}`)

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didClose",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(messages))
	}
	if _, ok := server.docs["file:///tmp/test.chonk"]; ok {
		t.Fatalf("expected document to be forgotten")
	}
}

func TestHandleMessageHoverClassifiesBuiltins(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), &bytes.Buffer{})
	server.docs["file:///tmp/test.chonk"] = "start = 1;\nnow = clock();\n"
	params := map[string]any{
		"textDocument": map[string]any{
			"uri": "file:///tmp/test.chonk",
		},
		"position": map[string]any{
			"line":      1,
			"character": 8,
		},
	}
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("1"),
		Method:  "textDocument/hover",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one response, got %d", len(messages))
	}
	result, ok := messages[0].Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected hover result: %#v", messages[0].Result)
	}
	contents, ok := result["contents"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected hover contents: %#v", result["contents"])
	}
	value, ok := contents["value"].(string)
	if !ok {
		t.Fatalf("unexpected hover value: %#v", contents["value"])
	}
	if !strings.Contains(value, "`clock`") || !strings.Contains(value, "builtin") {
		t.Fatalf("expected builtin classification in hover value, got %q", value)
	}
}

func TestHandleMessageUnknownRequest(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), &bytes.Buffer{})
	messages := server.handleMessage(lspInboundMessage{JSONRPC: "2.0", ID: rawID("7"), Method: "workspace/symbol"})
	if len(messages) != 1 || messages[0].Error == nil || messages[0].Error.Code != -32601 {
		t.Fatalf("expected method not found, got %#v", messages)
	}
	if got := server.handleMessage(lspInboundMessage{JSONRPC: "2.0", Method: "$/cancelRequest"}); got != nil {
		t.Fatalf("notifications should not be answered, got %#v", got)
	}
}

func TestWordAtPosition(t *testing.T) {
	source := "x = 1;\nwhile x < 3 {\n"
	if word := wordAtPosition(source, 1, 2); word != "while" {
		t.Fatalf("expected while, got %q", word)
	}
	if word := wordAtPosition(source, 1, 5); word != "while" {
		t.Fatalf("cursor after a word should still find it, got %q", word)
	}
	if word := wordAtPosition(source, 5, 0); word != "" {
		t.Fatalf("out of range line should be empty, got %q", word)
	}
}

func TestWordAtPositionUsesUTF16CharacterOffsets(t *testing.T) {
	source := "😀😀x y\n"
	word := wordAtPosition(source, 0, 4)
	if word != "x" {
		t.Fatalf("expected x, got %q", word)
	}
}

func writeFrame(t *testing.T, buf *bytes.Buffer, body string) {
	t.Helper()
	if _, err := fmt.Fprintf(buf, "Content-Length: %d\r\n\r\n%s", len(body), body); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func rawID(value string) *json.RawMessage {
	raw := json.RawMessage(value)
	return &raw
}

func findCompletionItem(t *testing.T, items []map[string]any, label string) map[string]any {
	t.Helper()
	for _, item := range items {
		itemLabel, ok := item["label"].(string)
		if ok && itemLabel == label {
			return item
		}
	}
	t.Fatalf("missing completion item %q", label)
	return nil
}
