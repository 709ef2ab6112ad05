// Copyright 2025 The TapServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements tapdict, the packed dictionary build tool.

tapdict turns a tab-separated word frequency list into the binary trie
format the engine memory-maps at runtime:

	tapdict -input words_en.tsv -output data/main_en.dict

Each input line holds a word and its frequency (0..255):

	the	255
	cat	10

Optional bigram and shortcut lists enrich the dictionary:

	tapdict -input words.tsv -bigrams bigrams.tsv -shortcuts shortcuts.tsv -output main.dict

Bigram lines hold "first second freq", shortcut lines "word target".
*/
package main

import (
	"bufio"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/softkb/tapserve/internal/logger"
	"github.com/softkb/tapserve/pkg/dictionary"
)

var dlog *log.Logger

func main() {
	input := flag.String("input", "", "Tab-separated word frequency list (required)")
	output := flag.String("output", "main.dict", "Output dictionary path")
	bigrams := flag.String("bigrams", "", "Optional tab-separated bigram list")
	shortcuts := flag.String("shortcuts", "", "Optional tab-separated shortcut list")
	debugMode := flag.Bool("d", false, "Toggle debug mode")

	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
	}

	dlog = logger.NewWithConfig("tapdict", log.GetLevel(), false, true, log.TextFormatter)
	if *input == "" {
		dlog.Fatal("Missing -input word list")
	}

	builder := dictionary.NewBuilder()

	words, err := loadTSV(*input, 2, func(fields []string) error {
		freq, err := strconv.Atoi(fields[1])
		if err != nil {
			return err
		}
		builder.AddWord(fields[0], freq)
		return nil
	})
	if err != nil {
		dlog.Fatalf("Failed to read word list: %v", err)
	}
	dlog.Debugf("Loaded %d words from %s", words, *input)

	if *bigrams != "" {
		n, err := loadTSV(*bigrams, 3, func(fields []string) error {
			freq, err := strconv.Atoi(fields[2])
			if err != nil {
				return err
			}
			builder.AddBigram(fields[0], fields[1], uint8(freq))
			return nil
		})
		if err != nil {
			dlog.Fatalf("Failed to read bigram list: %v", err)
		}
		dlog.Debugf("Loaded %d bigrams from %s", n, *bigrams)
	}

	if *shortcuts != "" {
		n, err := loadTSV(*shortcuts, 2, func(fields []string) error {
			builder.AddShortcut(fields[0], fields[1])
			return nil
		})
		if err != nil {
			dlog.Fatalf("Failed to read shortcut list: %v", err)
		}
		dlog.Debugf("Loaded %d shortcuts from %s", n, *shortcuts)
	}

	blob, err := builder.Build()
	if err != nil {
		dlog.Fatalf("Failed to build dictionary: %v", err)
	}
	if err := os.WriteFile(*output, blob.Bytes(), 0644); err != nil {
		dlog.Fatalf("Failed to write %s: %v", *output, err)
	}
	dlog.Infof("Wrote %s (%d bytes, %d words)", *output, blob.Len(), words)
}

// loadTSV reads a tab-separated file line by line, skipping blanks and
// '#' comments, and hands each line's fields to fn. Lines with fewer
// than minFields are skipped with a warning.
func loadTSV(path string, minFields int, fn func(fields []string) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < minFields {
			dlog.Warnf("%s:%d: expected %d fields, got %d", path, lineNo, minFields, len(fields))
			continue
		}
		if err := fn(fields); err != nil {
			dlog.Warnf("%s:%d: %v", path, lineNo, err)
			continue
		}
		count++
	}
	return count, scanner.Err()
}
