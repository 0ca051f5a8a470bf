package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/oarkflow/json"

	"github.com/mgomes/chonk/chonk"
)

const (
	severityError   = 1
	severityWarning = 2
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspDidCloseParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

// lspServer holds the open documents by URI. Messages are handled one at a
// time on the serving goroutine.
type lspServer struct {
	reader   *bufio.Reader
	headers  *textproto.Reader
	writer   *bufio.Writer
	builtins []string
	docs     map[string]string
}

func newLSPServer(r io.Reader, w io.Writer) *lspServer {
	reader := bufio.NewReader(r)
	return &lspServer{
		reader:   reader,
		headers:  textproto.NewReader(reader),
		writer:   bufio.NewWriter(w),
		builtins: chonk.NewInterpreter(chonk.Config{Stdout: io.Discard}).Builtins(),
		docs:     make(map[string]string),
	}
}

func runLSP() error {
	return newLSPServer(os.Stdin, os.Stdout).serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

// handleMessage returns the responses and notifications owed for one
// inbound message. Notifications without a handler are dropped.
func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return reply(incoming.ID, s.capabilities())
	case "initialized", "exit":
		return nil
	case "shutdown":
		return reply(incoming.ID, nil)
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		return s.update(params.TextDocument.URI, params.TextDocument.Text)
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil || len(params.ContentChanges) == 0 {
			return nil
		}
		return s.update(params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text)
	case "textDocument/didClose":
		var params lspDidCloseParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		delete(s.docs, params.TextDocument.URI)
		return []lspOutboundMessage{publish(params.TextDocument.URI, []map[string]any{})}
	case "textDocument/completion":
		return reply(incoming.ID, map[string]any{
			"isIncomplete": false,
			"items":        completionItems(s.builtins),
		})
	case "textDocument/hover":
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return replyError(incoming.ID, -32602, "invalid hover params")
		}
		return reply(incoming.ID, s.hover(params))
	default:
		return replyError(incoming.ID, -32601, "method not found")
	}
}

func (s *lspServer) capabilities() map[string]any {
	return map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync": 1,
			"hoverProvider":    true,
			"completionProvider": map[string]any{
				"resolveProvider": false,
			},
		},
		"serverInfo": map[string]any{
			"name":    "chonk-lsp",
			"version": version,
		},
	}
}

func (s *lspServer) update(uri, text string) []lspOutboundMessage {
	s.docs[uri] = text
	return []lspOutboundMessage{publish(uri, diagnosticsForSource(text))}
}

// hover returns nil when the cursor is not on a word.
func (s *lspServer) hover(params lspTextDocumentPositionParams) any {
	source := s.docs[params.TextDocument.URI]
	word := wordAtPosition(source, params.Position.Line, params.Position.Character)
	if word == "" {
		return nil
	}
	return map[string]any{
		"contents": map[string]any{
			"kind":  "markdown",
			"value": fmt.Sprintf("`%s`\n\nChonk %s", word, classifyWord(word, s.builtins)),
		},
	}
}

// reply answers a request. A nil id means the message was a notification and
// nothing is sent.
func reply(id *json.RawMessage, result any) []lspOutboundMessage {
	if id == nil {
		return nil
	}
	return []lspOutboundMessage{{JSONRPC: "2.0", ID: id, Result: result}}
}

func replyError(id *json.RawMessage, code int, message string) []lspOutboundMessage {
	if id == nil {
		return nil
	}
	return []lspOutboundMessage{{JSONRPC: "2.0", ID: id, Error: &lspResponseError{Code: code, Message: message}}}
}

func publish(uri string, diagnostics []map[string]any) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnostics,
		},
	}
}

// diagnosticsForSource reports the first lex or parse error, or else the
// parser's non-fatal diagnostics followed by lint warnings.
func diagnosticsForSource(source string) []map[string]any {
	tokens, err := chonk.Scan(source)
	if err != nil {
		return []map[string]any{errorDiagnostic(source, err)}
	}

	parser := chonk.NewParser(tokens)
	program, err := parser.Parse()
	if err != nil {
		return []map[string]any{errorDiagnostic(source, err)}
	}

	out := make([]map[string]any, 0)
	for _, diag := range parser.Diagnostics() {
		out = append(out, newDiagnostic(source, diag.Found.Pos, severityWarning, diag.Message))
	}
	for _, warning := range analyzeProgram(program) {
		out = append(out, newDiagnostic(source, warning.Pos, severityWarning, warning.Message))
	}
	return out
}

func errorDiagnostic(source string, err error) map[string]any {
	var lexErr *chonk.LexError
	if errors.As(err, &lexErr) {
		return newDiagnostic(source, lexErr.Pos, severityError, err.Error())
	}
	var parseErr *chonk.ParseError
	if errors.As(err, &parseErr) {
		return newDiagnostic(source, parseErr.Found.Pos, severityError, err.Error())
	}
	return newDiagnostic(source, chonk.Position{Line: 1, Column: 1}, severityError, err.Error())
}

// newDiagnostic converts a 1-based rune position into a 0-based UTF-16
// range one character wide.
func newDiagnostic(source string, pos chonk.Position, severity int, message string) map[string]any {
	line := max(0, pos.Line-1)
	character := utf16Offset(source, line, max(0, pos.Column-1))
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": severity,
		"source":   "chonk-lsp",
		"message":  message,
	}
}

func completionItems(builtins []string) []map[string]any {
	keywords := chonk.Keywords()
	labels := make([]string, 0, len(keywords)+len(builtins))
	labels = append(labels, keywords...)
	labels = append(labels, builtins...)
	sort.Strings(labels)

	items := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		kind := 3 // Function
		detail := "builtin"
		if slices.Contains(keywords, label) {
			kind = 14 // Keyword
			detail = "keyword"
		}
		items = append(items, map[string]any{
			"label":  label,
			"kind":   kind,
			"detail": detail,
		})
	}
	return items
}

func classifyWord(word string, builtins []string) string {
	switch {
	case slices.Contains(chonk.Keywords(), word):
		return "keyword"
	case slices.Contains(builtins, word):
		return "builtin"
	default:
		return "symbol"
	}
}

// wordAtPosition returns the identifier under or just before a UTF-16
// character offset, as sent by LSP clients.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	runes := []rune(strings.TrimRight(lines[line], "\r"))
	cursor := runeIndex(runes, max(character, 0))
	if cursor == len(runes) || !isWordRune(runes[cursor]) {
		cursor--
	}
	if cursor < 0 || !isWordRune(runes[cursor]) {
		return ""
	}

	start, end := cursor, cursor+1
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

// runeIndex maps a UTF-16 offset to the index of the rune containing it.
func runeIndex(runes []rune, offset int) int {
	units := 0
	for i, r := range runes {
		width := max(utf16.RuneLen(r), 1)
		if offset < units+width {
			return i
		}
		units += width
	}
	return len(runes)
}

func utf16Offset(source string, line, column int) int {
	lines := strings.Split(source, "\n")
	if line >= len(lines) {
		return column
	}
	runes := []rune(lines[line])
	units := 0
	for i := 0; i < column && i < len(runes); i++ {
		units += max(utf16.RuneLen(runes[i]), 1)
	}
	if column > len(runes) {
		units += column - len(runes)
	}
	return units
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// readPayload reads one base protocol frame: MIME style headers, a blank
// line, then Content-Length bytes of JSON.
func (s *lspServer) readPayload() ([]byte, error) {
	header, err := s.headers.ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) && len(header) == 0 {
			return nil, io.EOF
		}
		return nil, err
	}
	raw := header.Get("Content-Length")
	if raw == "" {
		return nil, errors.New("missing Content-Length header")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid Content-Length %q", raw)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Method, err)
	}
	fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n%s", len(data), data)
	return s.writer.Flush()
}
