package classify

import "bytes"

// Prompt is the debugger's session-ready marker. It is written without a
// trailing newline, so it never terminates a scanned line on its own.
const Prompt = "(gdb) "

// SplitConsole is a bufio.SplitFunc for the debugger's console stream.
// It emits the prompt as a standalone token when the buffer starts with
// one, and otherwise behaves like bufio.ScanLines (newline-terminated,
// carriage returns stripped).
func SplitConsole(data []byte, atEOF bool) (int, []byte, error) {
	if len(data) == 0 {
		return 0, nil, nil
	}
	if bytes.HasPrefix(data, []byte(Prompt)) {
		return len(Prompt), data[:len(Prompt)], nil
	}
	if data[0] == '>' {
		// Secondary prompt printed while the debugger reads a
		// multi-line define body; also newline-free. Wait for the next
		// byte so a trailing space is consumed with it.
		if len(data) == 1 {
			if atEOF {
				return 1, data[:1], nil
			}
			return 0, nil, nil
		}
		if data[1] == ' ' {
			return 2, data[:2], nil
		}
		return 1, data[:1], nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, dropCR(data[:i]), nil
	}
	if atEOF {
		return len(data), dropCR(data), nil
	}
	// A partial prompt may still be arriving; wait for more input.
	return 0, nil, nil
}

func dropCR(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] == '\r' {
		return data[:len(data)-1]
	}
	return data
}
