package cricketapi

import (
	"strings"

	"github.com/valyala/bytebufferpool"
)

const maxPreviewBody = 4096

// curlPreview renders a copy-pasteable curl command with the token masked.
func curlPreview(method, fullURL string, body []byte) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	part := func(s string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(s)
	}

	part("curl -X")
	part(method)
	part(shellQuote(fullURL))
	part("-H")
	part(shellQuote("Authorization: Bearer ***"))
	if len(body) > 0 {
		part("-H")
		part(shellQuote("Content-Type: application/json"))
		text := string(body)
		if len(text) > maxPreviewBody {
			text = text[:maxPreviewBody] + "...(truncated)"
		}
		part("-d")
		part(shellQuote(text))
	}
	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}
