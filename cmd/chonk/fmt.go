package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mgomes/chonk/chonk"
)

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	write := fs.Bool("w", false, "write result to source files instead of stdout")
	check := fs.Bool("check", false, "fail if any source file needs formatting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return errors.New("chonk fmt: path required")
	}

	files, err := collectChonkFiles(targets)
	if err != nil {
		return err
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted, err := formatChonkSource(original)
		if err != nil {
			return fmt.Errorf("%s: %w", path, &scriptError{err: err, source: original})
		}
		changed := formatted != original
		if changed {
			changedCount++
		}

		switch {
		case *write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case !*write && !*check:
			fmt.Print(formatted)
		}
	}

	if *check && changedCount > 0 {
		return fmt.Errorf("chonk fmt: %d file(s) need formatting", changedCount)
	}
	return nil
}

func collectChonkFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string, explicit bool) {
		if !explicit && filepath.Ext(path) != chonkExt {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target, true)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path, false)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// formatChonkSource strips trailing whitespace and ends the file with a
// single newline. Lines that continue inside a string literal are left
// untouched so string values do not change. Source that does not scan is
// rejected.
func formatChonkSource(source string) (string, error) {
	tokens, err := chonk.Scan(source)
	if err != nil {
		return "", err
	}

	// insideString[i] is true when line i+1 ends within a string literal.
	lines := strings.Split(source, "\n")
	insideString := make([]bool, len(lines))
	for _, tok := range tokens {
		if tok.Type != chonk.TokenString {
			continue
		}
		span := strings.Count(tok.Lexeme, "\n")
		for line := tok.Pos.Line; line < tok.Pos.Line+span; line++ {
			insideString[line-1] = true
		}
	}

	for i, line := range lines {
		if insideString[i] {
			continue
		}
		lines[i] = strings.TrimRight(line, " \t\r")
	}

	joined := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	if joined == "" {
		return "", nil
	}
	return joined + "\n", nil
}
