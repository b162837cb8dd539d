package scope

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
)

// Attach makes the first element of markup addressable by token:
//
//   - element without id gets id="token";
//   - element with id but without class gets class="token";
//   - element with both gets token appended to its class list.
//
// Only the first opening tag is touched, markup without elements is returned
// unchanged.
func Attach(markup, token string) string {
	z := xhtml.NewTokenizer(strings.NewReader(markup))
	offset := 0
	for {
		tt := z.Next()
		raw := z.Raw()
		switch tt {
		case xhtml.ErrorToken:
			return markup
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			hasID, hasClass := false, false
			for more := true; more; {
				var key []byte
				key, _, more = z.TagAttr()
				switch string(key) {
				case "id":
					hasID = true
				case "class":
					hasClass = true
				}
			}
			tag := rewriteTag(string(raw), html.EscapeString(token), tt == xhtml.SelfClosingTagToken, hasID, hasClass)
			return markup[:offset] + tag + markup[offset+len(raw):]
		}
		offset += len(raw)
	}
}

func rewriteTag(tag, token string, selfClosing, hasID, hasClass bool) string {
	switch {
	case !hasID:
		return insertAttr(tag, `id="`+token+`"`, selfClosing)
	case !hasClass:
		return insertAttr(tag, `class="`+token+`"`, selfClosing)
	}

	keyEnd, valEnd, value, ok := findAttr(tag, "class")
	if !ok {
		// attribute present but in a shape we do not recognize
		return tag
	}
	classes := token
	if trimmed := strings.TrimSpace(value); len(trimmed) > 0 {
		classes = strings.ReplaceAll(value, `"`, "&quot;") + " " + token
	}
	return tag[:keyEnd] + `="` + classes + `"` + tag[valEnd:]
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// findAttr scans raw start tag the way HTML tokenizer does and locates
// attribute name. It returns offset right after attribute name, offset right
// after its value (equal to the first one for attributes without value) and
// the raw value.
func findAttr(tag, name string) (keyEnd, valEnd int, value string, ok bool) {
	i := 1
	for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '/' && tag[i] != '>' {
		i++
	}
	for i < len(tag) {
		for i < len(tag) && (isTagSpace(tag[i]) || tag[i] == '/') {
			i++
		}
		if i >= len(tag) || tag[i] == '>' {
			return 0, 0, "", false
		}
		start := i
		i++ // name may start with '='
		for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '/' && tag[i] != '>' && tag[i] != '=' {
			i++
		}
		key, end := tag[start:i], i

		j := i
		for j < len(tag) && isTagSpace(tag[j]) {
			j++
		}
		if j >= len(tag) || tag[j] != '=' {
			if strings.EqualFold(key, name) {
				return end, end, "", true
			}
			continue
		}
		j++
		for j < len(tag) && isTagSpace(tag[j]) {
			j++
		}

		var val string
		if j < len(tag) && (tag[j] == '"' || tag[j] == '\'') {
			k := strings.IndexByte(tag[j+1:], tag[j])
			if k < 0 {
				return 0, 0, "", false
			}
			val = tag[j+1 : j+1+k]
			j += k + 2
		} else {
			from := j
			for j < len(tag) && !isTagSpace(tag[j]) && tag[j] != '>' {
				j++
			}
			val = tag[from:j]
		}
		if strings.EqualFold(key, name) {
			return end, j, val, true
		}
		i = j
	}
	return 0, 0, "", false
}

// insertAttr puts attribute right before closing bracket of the tag keeping
// self-closing marker in place.
func insertAttr(tag, attr string, selfClosing bool) string {
	end := len(tag) - 1
	if selfClosing {
		end--
	}
	head := strings.TrimRight(tag[:end], " \t\n\r\f")
	return head + " " + attr + tag[end:]
}
