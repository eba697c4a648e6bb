package cmdparse

import "strings"

// tokenize splits a command line into shell-style tokens. Single quotes are
// literal, double quotes and bare text honor backslash escapes, and quoted
// regions collapse into a single token with the quotes stripped. Unterminated
// quotes are tolerated: the remainder becomes part of the current token.
func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	inToken := false

	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inToken = false
		}
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case ' ', '\t', '\n':
			flush()
		case '\'':
			inToken = true
			for i++; i < len(runes) && runes[i] != '\''; i++ {
				cur.WriteRune(runes[i])
			}
		case '"':
			inToken = true
			for i++; i < len(runes) && runes[i] != '"'; i++ {
				if runes[i] == '\\' && i+1 < len(runes) {
					i++
				}
				cur.WriteRune(runes[i])
			}
		case '\\':
			inToken = true
			if i+1 < len(runes) {
				i++
				cur.WriteRune(runes[i])
			}
		default:
			inToken = true
			cur.WriteRune(c)
		}
	}
	flush()
	return tokens
}

var shellNames = map[string]bool{"bash": true, "zsh": true, "sh": true}

// unwrapShellInvocation detects the common `<shell> -lc "<script>"` wrapper
// the agent uses for every execution and re-tokenizes the wrapped script as
// the real command. Only one level is unwrapped.
func unwrapShellInvocation(tokens []string) []string {
	if len(tokens) < 3 {
		return tokens
	}
	head := tokens[0]
	if i := strings.LastIndexByte(head, '/'); i >= 0 {
		head = head[i+1:]
	}
	if !shellNames[head] {
		return tokens
	}
	if tokens[1] != "-lc" && tokens[1] != "-c" {
		return tokens
	}
	// The script is normally a single quoted token; if the caller skipped
	// quoting, everything after the flag is the script.
	return tokenize(strings.Join(tokens[2:], " "))
}

var confirmations = map[string]bool{"yes": true, "y": true, "no": true, "n": true}

// stripConfirmationPipe removes a leading `yes |` style prefix so the
// substantive command is classified instead of the confirmation feeder.
func stripConfirmationPipe(tokens []string) []string {
	if len(tokens) >= 3 && confirmations[tokens[0]] && tokens[1] == "|" {
		return tokens[2:]
	}
	return tokens
}

func isConnector(tok string) bool {
	switch tok {
	case "&&", "||", "|", ";":
		return true
	}
	return false
}

// splitStages segments a token stream on pipeline connectors, preserving
// left-to-right order. Empty stages (artifacts of adjacent connectors) are
// dropped.
func splitStages(tokens []string) [][]string {
	var stages [][]string
	var cur []string
	for _, tok := range tokens {
		if isConnector(tok) {
			if len(cur) > 0 {
				stages = append(stages, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, tok)
	}
	if len(cur) > 0 {
		stages = append(stages, cur)
	}
	return stages
}

// formattingCommands are pure text-shaping stages that never change which
// file or query the pipeline is about.
var formattingCommands = map[string]bool{
	"wc": true, "tr": true, "cut": true, "sort": true, "uniq": true,
	"xargs": true, "tee": true, "column": true, "awk": true, "yes": true,
	"printf": true,
}

// dropFormattingStages filters noise stages out of multi-stage pipelines.
// head/tail survive only when they carry an explicit path operand, and sed
// survives only in its range-read shape; a single-stage command is never
// filtered, whatever it is.
func dropFormattingStages(stages [][]string) [][]string {
	if len(stages) <= 1 {
		return stages
	}
	kept := make([][]string, 0, len(stages))
	for _, stage := range stages {
		if len(stage) == 0 {
			continue
		}
		switch stage[0] {
		case "head", "tail":
			if len(stage) < 3 {
				continue
			}
		case "sed":
			if parseSedRangeRead(stage) == nil {
				continue
			}
		default:
			if formattingCommands[stage[0]] {
				continue
			}
		}
		kept = append(kept, stage)
	}
	return kept
}
