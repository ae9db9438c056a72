package term

const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

// EncodePasteToBytes returns bytes to send for pasted content. When the
// remote enabled bracketed paste mode (see Interpreter.BracketedPaste), the
// payload is wrapped with xterm bracketed-paste markers.
func EncodePasteToBytes(content string, bracketed bool) []byte {
	if content == "" {
		return nil
	}
	if !bracketed {
		return []byte(content)
	}
	out := make([]byte, 0, len(content)+len(pasteStart)+len(pasteEnd))
	out = append(out, pasteStart...)
	out = append(out, content...)
	out = append(out, pasteEnd...)
	return out
}

// EncodeSubmit encodes a line of typed text followed by Enter.
func EncodeSubmit(text string, bracketed bool) []byte {
	out := EncodePasteToBytes(text, bracketed)
	return append(out, EncodeNamedKey(KeyEnter)...)
}
